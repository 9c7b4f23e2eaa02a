package requestlog

import (
	"context"
	"encoding/json"
	"mime"
	"net/url"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

type fiberResponse struct {
	c *fiber.Ctx
}

func (r fiberResponse) Status() int { return r.c.Response().StatusCode() }

// Fiber adapts rl to a fiber middleware. Downstream handlers find the
// Accumulator through c.UserContext(). An error from c.Next is returned to
// fiber untouched and nothing is logged.
//
// Strings taken from the fasthttp request are copied, since fiber reuses
// their buffers for later requests unless the app is Immutable.
func Fiber(rl *RequestLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := Request{
			Path:   fiberutils.CopyString(c.Path()),
			Method: fiberutils.CopyString(c.Method()),
			Params: fiberParams(c),
		}

		_, err := rl.Handle(c.UserContext(), req, func(ctx context.Context, _ Request) (Response, error) {
			c.SetUserContext(ctx)
			if err := c.Next(); err != nil {
				return nil, err
			}
			// route params exist only once the router has matched past this middleware
			mergeRouteParams(req.Params, c.AllParams())
			return fiberResponse{c: c}, nil
		})
		return err
	}
}

// mergeRouteParams adds route params below query and body values
func mergeRouteParams(dst map[string]any, route map[string]string) {
	for k, v := range route {
		k = fiberutils.CopyString(k)
		if _, ok := dst[k]; !ok {
			dst[k] = fiberutils.CopyString(v)
		}
	}
}

// fiberParams collects query and body params for fasthttp requests. Route
// params are merged by Fiber after routing.
func fiberParams(c *fiber.Ctx) map[string]any {
	params := make(map[string]any)

	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		query.Add(string(key), string(value))
	})
	mergeValues(params, query)

	mediaType, _, _ := mime.ParseMediaType(c.Get(fiber.HeaderContentType))
	switch mediaType {
	case fiber.MIMEApplicationJSON:
		var body map[string]any
		if json.Unmarshal(c.Body(), &body) == nil {
			for k, v := range body {
				params[k] = v
			}
		}
	case fiber.MIMEApplicationForm:
		form := url.Values{}
		c.Context().PostArgs().VisitAll(func(key, value []byte) {
			form.Add(string(key), string(value))
		})
		mergeValues(params, form)
	case fiber.MIMEMultipartForm:
		if form, err := c.MultipartForm(); err == nil {
			mergeValues(params, url.Values(form.Value))
		}
	}

	return params
}
