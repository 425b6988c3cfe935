package gworkspace

import (
	"net/http/httptest"

	"google.golang.org/api/option"
)

// testOptions points a Google API client at srv without authentication.
func testOptions(srv *httptest.Server) []option.ClientOption {
	return []option.ClientOption{
		option.WithEndpoint(srv.URL + "/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	}
}
