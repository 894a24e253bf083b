package tool

import (
	"maps"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	DefaultTimeout = 5 * time.Second
	// DetectHttpClient talks to local helper agents (tunnel discovery).
	DetectHttpClient = NewHTTPClient(DefaultTimeout)
)

// NewHTTPClient creates an HTTP client with a small idle pool; every peer is local.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func FastReturnError(msg string) gin.H {
	return gin.H{
		"error": msg,
	}
}

func FastReturnSuccess() gin.H {
	return gin.H{
		"status": "ok",
	}
}

func FastReturnSuccessWithData(data any) gin.H {
	return gin.H{
		"data": data,
	}
}

// FastReturnErrorWithData adds extra fields next to the error message.
func FastReturnErrorWithData(msg string, data map[string]any) gin.H {
	resp := gin.H{
		"error": msg,
	}
	maps.Copy(resp, data)
	return resp
}
