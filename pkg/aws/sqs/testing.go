package sqs

import (
	"github.com/aws/aws-sdk-go/aws/session"
	awssqs "github.com/aws/aws-sdk-go/service/sqs"
	"github.com/stretchr/testify/mock"
)

const (
	ConnectMethod            = "Connect"
	ConnectWithSessionMethod = "ConnectWithSession"
	GetSessionMethod         = "GetSession"
	SendMethod               = "Send"
	ReceiveMethod            = "Receive"
	DeleteMethod             = "Delete"
)

// Ensure MockClient implements ClientIFace
var _ ClientIFace = (*MockClient)(nil)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Connect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockClient) ConnectWithSession(awsSession *session.Session) {
	_ = m.Called(awsSession)
}

func (m *MockClient) GetSession() *session.Session {
	args := m.Called()
	return args.Get(0).(*session.Session)
}

func (m *MockClient) Send(queueUrl string, msg string) error {
	args := m.Called(queueUrl, msg)
	return args.Error(0)
}

func (m *MockClient) Receive(queueUrl string) (*awssqs.Message, error) {
	args := m.Called(queueUrl)
	if msg := args.Get(0); msg != nil {
		return msg.(*awssqs.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) Delete(queueUrl string, receiptHandle *string) error {
	args := m.Called(queueUrl, receiptHandle)
	return args.Error(0)
}
