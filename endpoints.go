package linkedin

import (
	"context"
	"strings"
	"unicode"
)

// ProfileURL is the member profile resource of the default API base.
const ProfileURL = DefaultAPIBase + "/people/~"

// Field selectors for the profile resource. Whitespace is ignored, so they can
// be written across several lines.
const (
	ProfileFieldsBasic = ":(id,first-name,last-name,headline,picture-url)"

	ProfileFieldsFull = `
		:(id,first-name,last-name,headline,picture-url,industry,summary,specialties,
		positions:(id,title,summary,start-date,end-date,is-current,company:(id,name,type,size,industry,ticker)),
		educations:(id,school-name,field-of-study,start-date,end-date,degree,activities,notes),
		associations,interests,num-recommenders,date-of-birth,
		publications:(id,title,publisher:(name),authors:(id,name),date,url,summary),
		patents:(id,title,summary,number,status:(id,name),
		office:(name),inventors:(id,name),date,url),
		languages:(id,language:(name),proficiency:(level,name)),
		skills:(id,skill:(name)),certifications:(id,name,authority:(name),
		number,start-date,end-date),courses:(id,name,number),
		recommendations-received:(id,recommendation-type,recommendation-text,recommender),
		honors-awards,three-current-positions,three-past-positions,volunteer)
	`
)

// PrepareURL appends the field selector params to rawURL and asks for a JSON
// response. All whitespace in params is dropped.
//
//	PrepareURL("https://api.linkedin.com/v1/people/~", ":(id, headline)")
//	// https://api.linkedin.com/v1/people/~:(id,headline)?format=json
func PrepareURL(rawURL, params string) string {
	params = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, params)

	u := rawURL + params
	if strings.Contains(u, "?") {
		return u + "&format=json"
	}
	return u + "?format=json"
}

// RetrieveProfileData returns the authenticated member's profile. An empty
// params selects ProfileFieldsFull.
func (c *Client) RetrieveProfileData(ctx context.Context, token, params string) (map[string]any, error) {
	if params == "" {
		params = ProfileFieldsFull
	}
	return c.Retrieve(ctx, token, PrepareURL(c.apiBase+"/people/~", params))
}

// RetrieveData fetches any API resource at rawURL with the given field selector.
func (c *Client) RetrieveData(ctx context.Context, token, rawURL, params string) (map[string]any, error) {
	return c.Retrieve(ctx, token, PrepareURL(rawURL, params))
}
