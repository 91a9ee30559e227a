// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a bound request struct and returns a Response:
//
//	create := handler.Wrap(
//		func(ctx handler.Context, req createRequest) handler.Response {
//			item, err := svc.Create(ctx, req.toInput())
//			if err != nil {
//				return handler.Error(err)
//			}
//			return handler.Created(item)
//		},
//		handler.WithBinders(binder.JSON()),
//		handler.WithErrorHandler(errs),
//	)
//
// NewErrorHandler renders every failure as {"error": {...}} JSON using a
// table of errors.Is mappings supplied at wiring time.
package handler
