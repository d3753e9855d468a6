package commerce

import (
	"fmt"
	"strings"
)

// categoryDepth is how many category parents are requested with their
// fields. One more level is requested by slug only, so a deeper tree is
// detected.
const categoryDepth = 8

// listingsQuery pages through products of one category, optionally narrowed
// to an owner stored in product metadata.
var listingsQuery = fmt.Sprintf(`query Listings($first: Int!, $after: String, $channel: String!, $category: String!, $owner: String) {
  products(first: $first, after: $after, channel: $channel, filter: {categorySlug: $category, ownerId: $owner}) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        name
        slug
        created
        updatedAt
        %s
        pricing { priceRange { start { gross { amount currency } } } }
        attributes { attribute { slug } values { name } }
        metadata { key value }
        thumbnail { url alt }
      }
    }
  }
}

fragment CategoryFields on Category { slug name }`, categorySelection(categoryDepth))

// categorySelection returns the category field with depth parents and a
// trailing slug-only parent.
func categorySelection(depth int) string {
	var b strings.Builder
	b.WriteString("category { ...CategoryFields")
	for i := 0; i < depth; i++ {
		b.WriteString(" parent { ...CategoryFields")
	}
	b.WriteString(" parent { slug }")
	b.WriteString(strings.Repeat(" }", depth+1))
	return b.String()
}

// categoryTruncated reports whether the chain of n reaches the slug-only
// level, where the real root may lie further up.
func categoryTruncated(n *categoryNode) bool {
	for i := 0; n != nil; i++ {
		if i > categoryDepth {
			return true
		}
		n = n.Parent
	}
	return false
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type listingsResponse struct {
	Data struct {
		Products *productConnection `json:"products"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type productConnection struct {
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
	Edges []struct {
		Node productNode `json:"node"`
	} `json:"edges"`
}

type categoryNode struct {
	Slug   string        `json:"slug"`
	Name   string        `json:"name"`
	Parent *categoryNode `json:"parent"`
}

type money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type productNode struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Slug      string        `json:"slug"`
	Created   string        `json:"created"`
	UpdatedAt string        `json:"updatedAt"`
	Category  *categoryNode `json:"category"`
	Pricing   *struct {
		PriceRange *struct {
			Start *struct {
				Gross *money `json:"gross"`
			} `json:"start"`
		} `json:"priceRange"`
	} `json:"pricing"`
	Attributes []struct {
		Attribute struct {
			Slug string `json:"slug"`
		} `json:"attribute"`
		Values []struct {
			Name string `json:"name"`
		} `json:"values"`
	} `json:"attributes"`
	Metadata []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"metadata"`
	Thumbnail *struct {
		URL string `json:"url"`
		Alt string `json:"alt"`
	} `json:"thumbnail"`
}
