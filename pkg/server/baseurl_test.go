package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// BaseURLTestSuite tests base URL detection
type BaseURLTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

// SetupTest runs before each test
func (s *BaseURLTestSuite) SetupTest() {
	s.echo = echo.New()
}

func (s *BaseURLTestSuite) contextFor(host string, headers map[string]string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = host
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return s.echo.NewContext(req, httptest.NewRecorder())
}

// TestDirectRequest tests detection without proxy headers
func (s *BaseURLTestSuite) TestDirectRequest() {
	ctx := s.contextFor("localhost:8072", nil)
	s.Equal("http://localhost:8072", requestBaseURL(ctx))
}

// TestForwardedProto tests scheme override
func (s *BaseURLTestSuite) TestForwardedProto() {
	ctx := s.contextFor("media.example.com", map[string]string{
		"X-Forwarded-Proto": "https",
	})
	s.Equal("https://media.example.com", requestBaseURL(ctx))
}

// TestForwardedHost tests host override
func (s *BaseURLTestSuite) TestForwardedHost() {
	ctx := s.contextFor("10.0.0.5:8072", map[string]string{
		"X-Forwarded-Host": "cdn.example.com",
	})
	s.Equal("http://cdn.example.com", requestBaseURL(ctx))
}

// TestBothForwardedHeaders tests proxy scheme and host together
func (s *BaseURLTestSuite) TestBothForwardedHeaders() {
	ctx := s.contextFor("10.0.0.5:8072", map[string]string{
		"X-Forwarded-Proto": "https",
		"X-Forwarded-Host":  "cdn.example.com",
	})
	s.Equal("https://cdn.example.com", requestBaseURL(ctx))
}

// TestBaseURLSuite runs the base URL test suite
func TestBaseURLSuite(t *testing.T) {
	suite.Run(t, new(BaseURLTestSuite))
}
