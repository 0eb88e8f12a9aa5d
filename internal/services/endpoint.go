// Package services contains one typed wrapper per backend resource.
// Services are called by dashboard controllers and talk to the backend
// only through the transport client.
package services

import (
	"net/url"
	"strings"
)

// endpoint builds URLs for one REST resource under /api
type endpoint string

func (e endpoint) collection() string {
	return "/api/" + string(e)
}

func (e endpoint) item(id string) string {
	return e.collection() + "/" + url.PathEscape(id)
}

func (e endpoint) sub(id string, parts ...string) string {
	return e.item(id) + "/" + strings.Join(parts, "/")
}

func (e endpoint) action(name string) string {
	return e.collection() + "/" + name
}

const (
	casesEndpoint          endpoint = "cases"
	personsEndpoint        endpoint = "persons"
	departmentsEndpoint    endpoint = "departments"
	reportsEndpoint        endpoint = "reports"
	teamFormationsEndpoint endpoint = "team-formations"
	adminEndpoint          endpoint = "admin"
	authEndpoint           endpoint = "auth"
)

func queryOf(key, value string) url.Values {
	return url.Values{key: []string{value}}
}
