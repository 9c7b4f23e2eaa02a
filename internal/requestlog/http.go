package requestlog

import (
	"context"
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// statusRecorder remembers the first status written; 200 if the handler
// only writes a body
type statusRecorder struct {
	status int
	wrote  bool
}

func (s *statusRecorder) Status() int { return s.status }

func (s *statusRecorder) mark(code int) {
	if !s.wrote {
		s.status = code
		s.wrote = true
	}
}

// HTTP adapts rl to a net/http middleware
func HTTP(rl *RequestLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := Request{
				Path:   r.URL.Path,
				Method: r.Method,
				Params: requestParams(r, nil),
			}

			_, _ = rl.Handle(r.Context(), req, func(ctx context.Context, _ Request) (Response, error) {
				rec := &statusRecorder{status: http.StatusOK}
				ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
					WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
						return func(code int) {
							rec.mark(code)
							next(code)
						}
					},
					Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
						return func(b []byte) (int, error) {
							rec.mark(http.StatusOK)
							return next(b)
						}
					},
					ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
						return func(src io.Reader) (int64, error) {
							rec.mark(http.StatusOK)
							return next(src)
						}
					},
				})

				next.ServeHTTP(ww, r.WithContext(ctx))
				return rec, nil
			})
		})
	}
}
