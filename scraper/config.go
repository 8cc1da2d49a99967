package scraper

import "errors"

// Selectors defines how to find postings on the listing site. Search result
// pages are mined with ListConfig, posting pages with DetailConfig.
type Selectors struct {
	List   ListConfig   `yaml:"list"`
	Detail DetailConfig `yaml:"detail"`
}

// ListConfig defines how to discover posting links on a search result page.
type ListConfig struct {
	CardSelector string `yaml:"card_selector"` // anchors whose href is a posting
}

// DetailConfig defines how to extract fields from a single posting page. The
// description is looked up in two steps: first the container, then the text
// element inside it.
type DetailConfig struct {
	TitleSelector                string `yaml:"title_selector"`
	DescriptionContainerSelector string `yaml:"description_container_selector"`
	DescriptionTextSelector      string `yaml:"description_text_selector"`
}

// DefaultSelectors returns the selectors for Divar's card and posting
// markup.
func DefaultSelectors() Selectors {
	return Selectors{
		List: ListConfig{
			CardSelector: "a.kt-post-card__action",
		},
		Detail: DetailConfig{
			TitleSelector:                "h1.kt-page-title__title",
			DescriptionContainerSelector: "div.kt-description-row",
			DescriptionTextSelector:      "p.kt-description-row__text--primary",
		},
	}
}

// Validate checks that every selector is set.
func (s Selectors) Validate() error {
	if s.List.CardSelector == "" {
		return errors.New("list.card_selector is required")
	}
	if s.Detail.TitleSelector == "" {
		return errors.New("detail.title_selector is required")
	}
	if s.Detail.DescriptionContainerSelector == "" {
		return errors.New("detail.description_container_selector is required")
	}
	if s.Detail.DescriptionTextSelector == "" {
		return errors.New("detail.description_text_selector is required")
	}
	return nil
}
