package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	copies  []*s3.CopyObjectInput
	deletes []string
	copyErr error
}

func (f *fakeObjectAPI) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	if f.copyErr != nil {
		return nil, f.copyErr
	}
	f.copies = append(f.copies, params)
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestDuplicate_CopiesToNewKey(t *testing.T) {
	api := &fakeObjectAPI{}
	c := NewS3ClientWithAPI(api, S3Config{Bucket: "recipes", CDNURL: "https://cdn.example.com/", BasePath: "images/"})

	obj, err := c.Duplicate(context.Background(), "https://cdn.example.com/images/2024/01/01/soup_1.jpg")
	require.NoError(t, err)
	require.Len(t, api.copies, 1)

	assert.Equal(t, "recipes", aws.ToString(api.copies[0].Bucket))
	assert.Contains(t, aws.ToString(api.copies[0].CopySource), "images%2F2024%2F01%2F01%2Fsoup_1.jpg")
	assert.NotEqual(t, "images/2024/01/01/soup_1.jpg", obj.Key)
	assert.True(t, strings.HasPrefix(obj.Key, "images/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".jpg"))
	assert.Equal(t, "https://cdn.example.com/"+obj.Key, obj.Location)
}

func TestDuplicate_CopyFailure(t *testing.T) {
	api := &fakeObjectAPI{copyErr: errors.New("access denied")}
	c := NewS3ClientWithAPI(api, S3Config{Bucket: "recipes"})

	_, err := c.Duplicate(context.Background(), "https://recipes.s3.amazonaws.com/a.jpg")
	assert.ErrorContains(t, err, "s3 copy failed")
}

func TestKeyFromLocation(t *testing.T) {
	c := NewS3ClientWithAPI(&fakeObjectAPI{}, S3Config{Bucket: "recipes"})

	key, err := c.KeyFromLocation("https://recipes.s3.us-west-2.amazonaws.com/1690000000000")
	require.NoError(t, err)
	assert.Equal(t, "1690000000000", key)

	key, err = c.KeyFromLocation("http://minio:9000/recipes/images/a%20b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "images/a b.jpg", key)

	_, err = c.KeyFromLocation("https://recipes.s3.amazonaws.com/")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	api := &fakeObjectAPI{}
	c := NewS3ClientWithAPI(api, S3Config{Bucket: "recipes"})

	require.NoError(t, c.Delete(context.Background(), "images/x.jpg"))
	assert.Equal(t, []string{"images/x.jpg"}, api.deletes)
}
