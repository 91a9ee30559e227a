// Package jwt issues and verifies HS256 JSON Web Tokens and provides the
// credential extractors shared by the HTTP middleware and the real-time
// gateway.
//
// Verification failures are distinguishable with errors.Is:
// ErrMalformedToken for structurally broken tokens, ErrInvalidSignature for
// tokens signed with another key, ErrExpiredToken for tokens past "exp" and
// ErrInvalidToken for everything else (missing token, "nbf" in the future,
// foreign algorithm).
//
//	svc, _ := jwt.NewFromString(secret)
//	token, _ := svc.Generate(jwt.Claims{
//		StandardClaims: jwt.NewStandardClaims(userID, time.Hour),
//		Role:           "member",
//	})
//
//	var claims jwt.Claims
//	if err := svc.Parse(token, &claims); err != nil {
//		// errors.Is(err, jwt.ErrExpiredToken) ...
//	}
package jwt
