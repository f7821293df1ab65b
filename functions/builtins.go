package functions

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentmigrate/pageheader/errors"
)

const ErrArgumentCount = errors.Error("wrong number of arguments")

// Builtin is a function implemented in Go.
type Builtin struct {
	// Args is the number of arguments required. Negative means any.
	Args int

	// UserOnly restricts the function to fields of FieldTypeUser.
	UserOnly bool

	Fn func(ctx context.Context, args []string) (string, error)
}

func builtins() map[string]Builtin {
	return map[string]Builtin{
		"ToImageUrl":     {Args: 1, Fn: toImageURL},
		"ToImageAltText": {Args: 1, Fn: toImageAltText},
		"ToImageAnchor":  {Args: 1, Fn: toImageAnchor},
		"StaticString":   {Args: 1, Fn: staticString},
		"EmptyString":    {Args: 0, Fn: emptyString},
		"Prefix":         {Args: 2, Fn: prefix},
		"Suffix":         {Args: 2, Fn: suffix},
		"ToAuthors":      {Args: 1, UserOnly: true, Fn: toAuthors},
	}
}

func parseImageHTML(value string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
	if err != nil {
		return nil, err
	}
	return doc.Find("img").First(), nil
}

// toImageURL returns the server relative src of the first image in a
// publishing image value. A bare URL is accepted as is.
func toImageURL(_ context.Context, args []string) (string, error) {
	value := strings.TrimSpace(args[0])
	if value == "" {
		return "", nil
	}

	src := value
	if strings.HasPrefix(value, "<") {
		img, err := parseImageHTML(value)
		if err != nil {
			return "", err
		}
		s, ok := img.Attr("src")
		if !ok {
			return "", nil
		}
		src = strings.TrimSpace(s)
	}

	return serverRelative(src), nil
}

// serverRelative returns the decoded path of an absolute URL, matching how
// relative src values are written. Other values pass through.
func serverRelative(src string) string {
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return src
	}
	return u.Path
}

func toImageAltText(_ context.Context, args []string) (string, error) {
	value := strings.TrimSpace(args[0])
	if !strings.HasPrefix(value, "<") {
		return "", nil
	}

	img, err := parseImageHTML(value)
	if err != nil {
		return "", err
	}
	alt, _ := img.Attr("alt")
	return strings.TrimSpace(alt), nil
}

func toImageAnchor(_ context.Context, args []string) (string, error) {
	value := strings.TrimSpace(args[0])
	if !strings.HasPrefix(value, "<") {
		return "", nil
	}

	img, err := parseImageHTML(value)
	if err != nil {
		return "", err
	}
	href, _ := img.Closest("a").Attr("href")
	return strings.TrimSpace(href), nil
}

func staticString(_ context.Context, args []string) (string, error) {
	return args[0], nil
}

func emptyString(context.Context, []string) (string, error) {
	return "", nil
}

// prefix prepends args[0] to a non-empty args[1].
func prefix(_ context.Context, args []string) (string, error) {
	if args[1] == "" {
		return "", nil
	}
	return args[0] + args[1], nil
}

// suffix appends args[1] to a non-empty args[0].
func suffix(_ context.Context, args []string) (string, error) {
	if args[0] == "" {
		return "", nil
	}
	return args[0] + args[1], nil
}

// Principal is one entry of the authors list a modern page header carries.
type Principal struct {
	ID   string `json:"id"`
	UPN  string `json:"upn,omitempty"`
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
}

const (
	lookupSeparator = ";#"
	claimsSeparator = "|"
	authorRole      = "Author"
)

// toAuthors converts a user field value into a JSON principal list. Lookup
// values look like "12;#Jane Doe;#15;#John Smith". Anything else is read as
// ';' separated logins, with or without a claims prefix.
func toAuthors(_ context.Context, args []string) (string, error) {
	value := strings.TrimSpace(args[0])
	if value == "" {
		return "", nil
	}

	var principals []Principal
	if strings.Contains(value, lookupSeparator) {
		principals = parseLookupUsers(value)
	} else {
		principals = parseLogins(value)
	}
	if len(principals) == 0 {
		return "", nil
	}

	data, err := json.Marshal(principals)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parseLookupUsers(value string) []Principal {
	parts := strings.Split(value, lookupSeparator)

	var principals []Principal
	for i := 0; i+1 < len(parts); i += 2 {
		id := strings.TrimSpace(parts[i])
		name := strings.TrimSpace(parts[i+1])
		if id == "" && name == "" {
			continue
		}
		principals = append(principals, Principal{ID: id, Name: name, Role: authorRole})
	}
	return principals
}

func parseLogins(value string) []Principal {
	var principals []Principal
	for _, login := range strings.Split(value, ";") {
		login = strings.TrimSpace(login)
		if login == "" {
			continue
		}

		upn := login
		if i := strings.LastIndex(login, claimsSeparator); i >= 0 {
			upn = login[i+1:]
		}
		principals = append(principals, Principal{ID: login, UPN: upn, Role: authorRole})
	}
	return principals
}
