package requestlog

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ginResponse struct {
	w gin.ResponseWriter
}

func (r ginResponse) Status() int { return r.w.Status() }

// Gin adapts rl to a gin middleware. The remaining chain runs under a context
// carrying the request's Accumulator, reachable via c.Request.Context().
// A panic in the chain propagates to gin's recovery and nothing is logged.
func Gin(rl *RequestLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathParams := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			pathParams[p.Key] = p.Value
		}

		req := Request{
			Path:   c.Request.URL.Path,
			Method: c.Request.Method,
			Params: requestParams(c.Request, pathParams),
		}

		_, _ = rl.Handle(c.Request.Context(), req, func(ctx context.Context, _ Request) (Response, error) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return ginResponse{w: c.Writer}, nil
		})
	}
}
