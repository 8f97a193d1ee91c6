// Package httpclient provides the REST client the cloud transcription
// provider talks through: base URL resolution, default headers, API key
// auth, status classification and typed JSON helpers.
//
// Requests are sent exactly once. There is no retry, circuit breaker or
// rate limiter in this client.
//
//	c, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.assemblyai.com",
//	    Auth:    httpclient.APIKeyAuthHeader(key, "authorization"),
//	})
//
//	resp, err := httpclient.Get[Transcript](c, ctx, "/v2/transcript/"+id)
package httpclient
