package server

import (
	"github.com/labstack/echo/v4"
)

// requestBaseURL derives the externally visible base URL from the inbound
// request. X-Forwarded-Proto and X-Forwarded-Host take precedence so links
// stay correct behind a reverse proxy.
func requestBaseURL(ctx echo.Context) string {
	req := ctx.Request()

	scheme := ctx.Scheme()
	if forwarded := req.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	host := req.Host
	if forwarded := req.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}

	return scheme + "://" + host
}
