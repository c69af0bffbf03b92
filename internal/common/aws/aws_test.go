package aws

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

// ==========================
// Tests
// ==========================

func TestSNSClient_SendSMS(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		_, hasSender := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return aws.ToString(in.PhoneNumber) == "+27820000000" &&
			strings.Contains(aws.ToString(in.Message), "REQ-1") && hasSender
	})).Return(&sns.PublishOutput{MessageId: aws.String("msg-1")}, nil)

	client := NewSNSClientWith(api, "QBIT")
	id, err := client.SendSMS(context.Background(), "+27820000000", "Report REQ-1 rejected")

	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	api.AssertExpectations(t)
}

func TestSNSClient_SendSMSError(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := NewSNSClientWith(api, "").SendSMS(context.Background(), "+1", "x")
	assert.EqualError(t, err, "throttled")
}

func TestS3Client_Upload(t *testing.T) {
	api := new(mockS3)
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "exports" &&
			aws.ToString(in.Key) == "prices/a.csv" &&
			aws.ToString(in.ContentType) == "text/csv" &&
			string(body) == "Title\n"
	})).Return(&s3.PutObjectOutput{}, nil)

	loc, err := NewS3ClientWith(api, "exports").Upload(context.Background(), "prices/a.csv", "text/csv", strings.NewReader("Title\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/prices/a.csv", loc)
	api.AssertExpectations(t)
}
