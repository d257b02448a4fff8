package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/models"
)

// ParseMentions extracts @token references from message content and
// resolves them against the given user set. A token matches a user
// when it is a case-insensitive substring of the display name or the
// local part of the email. Tokens that match no user, or more than
// one, are silently dropped. The result is ordered by first
// occurrence and contains no duplicates.
func ParseMentions(content string, users []models.User) []uuid.UUID {
	mentions := make([]uuid.UUID, 0, 4)
	seen := make(map[uuid.UUID]bool)

	for _, token := range mentionTokens(content) {
		userID, ok := resolveMention(token, users)
		if !ok || seen[userID] {
			continue
		}
		seen[userID] = true
		mentions = append(mentions, userID)
	}
	return mentions
}

// mentionTokens returns the text runs following each '@'.
func mentionTokens(content string) []string {
	var tokens []string
	runes := []rune(content)

	for i := 0; i < len(runes); i++ {
		if runes[i] != '@' {
			continue
		}
		j := i + 1
		for j < len(runes) && isMentionRune(runes[j]) {
			j++
		}
		if j > i+1 {
			tokens = append(tokens, string(runes[i+1:j]))
		}
		i = j - 1
	}
	return tokens
}

func isMentionRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}

// resolveMention returns the single user the token refers to, or
// false when the token is unknown or ambiguous.
func resolveMention(token string, users []models.User) (uuid.UUID, bool) {
	needle := strings.ToLower(token)

	var match uuid.UUID
	var hits int
	for i := range users {
		name := strings.ToLower(users[i].Name)
		local := strings.ToLower(emailLocalPart(users[i].Email))
		if strings.Contains(name, needle) || strings.Contains(local, needle) {
			hits++
			if hits > 1 {
				return uuid.Nil, false
			}
			match = users[i].ID
		}
	}
	return match, hits == 1
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}
