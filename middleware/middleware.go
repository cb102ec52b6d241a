// Package middleware holds handlers for the gqlengine handler chain.
package middleware

import (
	"runtime"
	"time"

	"github.com/shyptr/gqlengine"
	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/sirupsen/logrus"
)

// Recovery turns a panic in a later handler into a request error. The
// panic and its stack are logged, the response only says it happened.
func Recovery() gqlengine.HandlerFunc {
	return func(c *gqlengine.Context) {
		defer func() {
			if r := recover(); r != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]
				c.Logger.WithFields(logrus.Fields{
					"operationName": c.OperationName(),
					"stack":         string(buf),
				}).Errorf("panic recovered: %v", r)
				c.Result = &execution.Result{Errors: errors.MultiError{
					errors.New("Internal error: %v", r),
				}}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// Logger logs every request once it completed, with its latency and the
// number of errors in the result.
func Logger() gqlengine.HandlerFunc {
	return func(c *gqlengine.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"operationName": c.OperationName(),
			"latency":       time.Since(start),
		}
		entry := c.Logger.WithFields(fields)
		if c.Result == nil || !c.Result.HasErrors() {
			entry.Info("request completed")
			return
		}
		entry.WithField("errors", len(c.Result.Errors)).Warn("request completed with errors")
		for _, err := range c.Result.Errors {
			entry.Debug(err.Message)
		}
	}
}

// Set stores a value on the request before the rest of the chain runs,
// making it available to resolvers through their context.
func Set(key, value interface{}) gqlengine.HandlerFunc {
	return func(c *gqlengine.Context) {
		c.Set(key, value)
	}
}
