package bot

import (
	"fmt"
	"strings"
)

const (
	replyBookmarkAdded  = "Bookmark added."
	replyBookmarkExists = "Bookmark already exists."
	replyUnmarked       = "Toast."
	replyNothingDeleted = "Nothing to delete."
	replyInternalError  = "Internal error. Please try again later."
)

// Reply is the outcome of one message. Silent replies are not posted.
type Reply struct {
	Text   string
	Silent bool
}

func say(text string) Reply {
	return Reply{Text: text}
}

func silent() Reply {
	return Reply{Silent: true}
}

func welcomeText(prefix string) string {
	return "Hi, I'm a linkbot! Usage: " + prefix + "bookmark <keyword> <data>"
}

func searchText(pattern string, handles []string, hasMore bool) string {
	if len(handles) == 0 {
		return fmt.Sprintf("No bookmarks match %q.", pattern)
	}
	list := strings.Join(handles, ", ")
	if hasMore {
		list += ", ..."
	}
	return fmt.Sprintf("Bookmarks matching %q: %s", pattern, list)
}

func invalidText(msg string) string {
	return "Invalid bookmark: " + msg + "."
}
