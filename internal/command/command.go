// Package command turns chat message text into typed commands.
package command

import (
	"net/url"
	"strings"

	"github.com/hpungsan/linkbot/internal/errors"
)

// DefaultPrefix marks a message as a command.
const DefaultPrefix = "."

// Kind identifies what a command does.
type Kind string

const (
	KindLookup   Kind = "lookup"
	KindBookmark Kind = "bookmark"
	KindUnmark   Kind = "unmark"
	KindSearch   Kind = "search"
	KindGoogle   Kind = "g"
	KindWeather  Kind = "weather"
)

// Command is a parsed chat command. Only the fields relevant to Kind are set:
// Handle for lookup, bookmark, unmark and search; Link for bookmark;
// Query for g and weather.
type Command struct {
	Kind   Kind
	Handle string
	Link   string
	Query  string
}

// Parse classifies text. It returns nil, nil when text is not a command.
// A recognized verb missing a required argument yields an INCOMPLETE_COMMAND
// error whose message is the usage text for that verb.
func Parse(prefix, text string) (*Command, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !strings.HasPrefix(text, prefix) {
		return nil, nil
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}
	verb := strings.TrimPrefix(tokens[0], prefix)
	if verb == "" {
		return nil, nil
	}
	args := tokens[1:]

	switch Kind(verb) {
	case KindBookmark:
		if len(args) < 2 {
			return nil, incomplete(prefix, KindBookmark)
		}
		return &Command{Kind: KindBookmark, Handle: args[0], Link: strings.Join(args[1:], " ")}, nil

	case KindUnmark:
		if len(args) < 1 {
			return nil, incomplete(prefix, KindUnmark)
		}
		return &Command{Kind: KindUnmark, Handle: args[0]}, nil

	case KindSearch:
		if len(args) < 1 {
			return nil, incomplete(prefix, KindSearch)
		}
		return &Command{Kind: KindSearch, Handle: args[0]}, nil

	case KindGoogle:
		if len(args) < 1 {
			return nil, incomplete(prefix, KindGoogle)
		}
		return &Command{Kind: KindGoogle, Query: strings.Join(args, " ")}, nil

	case KindWeather:
		if len(args) < 1 {
			return nil, incomplete(prefix, KindWeather)
		}
		return &Command{Kind: KindWeather, Query: args[0]}, nil
	}

	return &Command{Kind: KindLookup, Handle: verb}, nil
}

func incomplete(prefix string, kind Kind) error {
	return errors.NewIncompleteCommand(string(kind), Usage(prefix, kind))
}

// Usage returns the user-facing help text for a verb.
func Usage(prefix string, kind Kind) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	switch kind {
	case KindBookmark:
		return "Nothing to bookmark. Usage: " + prefix + "bookmark <keyword> <data>"
	case KindUnmark:
		return "Nothing to unbookmark. Usage: " + prefix + "unmark <keyword>"
	case KindSearch:
		return "Nothing to search for. Usage: " + prefix + "search <keyword>"
	case KindGoogle:
		return "Nothing to google. Usage: " + prefix + "g <query>"
	case KindWeather:
		return "Unable to fetch weather. Usage: " + prefix + "weather <zipcode>"
	}
	return ""
}

// GoogleURL builds a Google search link for query. Spaces are encoded as %20.
func GoogleURL(query string) string {
	return "https://www.google.com/search?q=" + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}
