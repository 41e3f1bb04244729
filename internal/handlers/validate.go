package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for board and account fields.
const (
	maxTitleLen       = 300
	maxDescriptionLen = 10_000
	maxCommentLen     = 2_000
	maxEmailLen       = 254
	maxNameLen        = 200
	minPasswordLen    = 8
)

// validateTitle checks a category or task title and returns the first
// error found, or "".
func validateTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	return ""
}

// validateDescription checks an optional task description.
func validateDescription(description string) string {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	return ""
}

// validateComment checks a comment body.
func validateComment(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Comment text is required."
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return "Comment is too long (max 2,000 characters)."
	}
	return ""
}

// validateEmail checks an account email address.
func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Email is not valid."
	}
	return ""
}

// validatePassword enforces the minimum password length.
func validatePassword(password string) string {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}

// validateName checks an optional display name.
func validateName(name string) string {
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}
