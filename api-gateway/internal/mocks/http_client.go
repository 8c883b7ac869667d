package mocks

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
)

type HTTPClient struct {
	mock.Mock
}

func NewHTTPClient(t *testing.T) *HTTPClient {
	m := &HTTPClient{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	ret := _m.Called(req)
	var resp *http.Response
	if r := ret.Get(0); r != nil {
		resp = r.(*http.Response)
	}
	return resp, ret.Error(1)
}
