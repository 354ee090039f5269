package splitwise

import (
	"context"
	"strings"

	"expense-forwarder/internal/core"
)

// FindIdentity implements core.IdentityDirectory against the friends list.
// Matching is exact and case-insensitive on email, first name, last name, or
// "first last"; the first hit wins. No fuzzy matching.
func (c *Client) FindIdentity(ctx context.Context, token string) (core.Identity, bool, error) {
	friends, err := c.Friends(ctx)
	if err != nil {
		return core.Identity{}, false, err
	}
	for _, friend := range friends {
		if strings.EqualFold(friend.Email, token) ||
			strings.EqualFold(friend.FirstName, token) ||
			strings.EqualFold(friend.LastName, token) ||
			strings.EqualFold(friend.FullName(), token) {
			return friend, true, nil
		}
	}
	return core.Identity{}, false, nil
}

// FindCategory implements core.CategoryDirectory. A top-level category name
// match resolves to that category's "Other" subcategory when it has one;
// otherwise the first subcategory with an exact case-insensitive name match
// wins. No match is a clean miss, not an error.
func (c *Client) FindCategory(ctx context.Context, name string) (int64, bool, error) {
	if strings.TrimSpace(name) == "" {
		return 0, false, nil
	}
	categories, err := c.Categories(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, category := range categories {
		if strings.EqualFold(category.Name, name) {
			for _, sub := range category.Subcategories {
				if strings.EqualFold(sub.Name, "Other") {
					return sub.ID, true, nil
				}
			}
		}
		for _, sub := range category.Subcategories {
			if strings.EqualFold(sub.Name, name) {
				return sub.ID, true, nil
			}
		}
	}
	return 0, false, nil
}
