package services

import (
	"fmt"
	"strings"
)

// BuildAdminURL links to a section of the admin back-office, e.g.
// "https://ailabs.example.com/admin/contacts".
func BuildAdminURL(baseURL, section string) string {
	if baseURL == "" || section == "" {
		return ""
	}
	return fmt.Sprintf("%s/admin/%s", strings.TrimSuffix(baseURL, "/"), strings.Trim(section, "/"))
}

// BuildContentURL links to the public page of a slugged entity, e.g.
// "https://ailabs.example.com/projects/robot-arm".
func BuildContentURL(baseURL, kind, slug string) string {
	if baseURL == "" || slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(baseURL, "/"), kind, slug)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
