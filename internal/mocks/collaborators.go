package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/pension-verification/internal/auth"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, content []byte, key, contentType string) (string, error) {
	args := m.Called(ctx, content, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, fileID, key string) error {
	args := m.Called(ctx, fileID, key)
	return args.Error(0)
}

type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) Compare(ctx context.Context, document, selfie []byte) (float64, error) {
	args := m.Called(ctx, document, selfie)
	return args.Get(0).(float64), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(p auth.Principal) (string, time.Time, error) {
	args := m.Called(p)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(token string) (auth.Principal, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Principal), args.Error(1)
}
