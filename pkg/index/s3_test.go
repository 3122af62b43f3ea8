// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	getErr  error
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreMissingKeyIsEmpty(t *testing.T) {
	store, err := NewS3Store(newFakeS3(), "bucket", "")
	require.NoError(t, err)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestS3StoreRoundTrip(t *testing.T) {
	client := newFakeS3()
	store, err := NewS3Store(client, "bucket", "index.json")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleDocument()))
	assert.Contains(t, client.objects, "bucket/index.json")

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), doc)
}

func TestS3StorePropagatesErrors(t *testing.T) {
	client := newFakeS3()
	client.getErr = errors.New("access denied")
	client.putErr = errors.New("slow down")
	store, err := NewS3Store(client, "bucket", "index.json")
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorContains(t, err, "access denied")

	err = store.Save(context.Background(), Document{})
	assert.ErrorContains(t, err, "slow down")
}

func TestNewS3StoreValidates(t *testing.T) {
	_, err := NewS3Store(nil, "bucket", "key")
	assert.Error(t, err)

	_, err = NewS3Store(newFakeS3(), "", "key")
	assert.Error(t, err)
}
