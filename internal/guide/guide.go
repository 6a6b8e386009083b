package guide

import (
	"slices"
	"sort"
)

// Link is a labelled reference to further reading.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// FixGuide is human-readable remediation content for one rule.
type FixGuide struct {
	// Title is a short imperative summary of the fix.
	Title string `json:"title"`

	// Why explains who is affected when the rule fails.
	Why string `json:"why"`

	// How lists the remediation steps in order.
	How []string `json:"how"`

	// Example is a corrected markup snippet, if one helps.
	Example string `json:"example,omitempty"`

	// Links point to specifications and tutorials.
	Links []Link `json:"links,omitempty"`
}

const (
	wcagUnderstanding = "https://www.w3.org/WAI/WCAG21/Understanding/"
	wcagTechniques    = "https://www.w3.org/WAI/WCAG21/Techniques/"
)

// guides maps rule ids to their remediation content.
// Entries must not be modified at runtime; Lookup and All hand out copies.
var guides = map[string]FixGuide{
	"image-alt": {
		Title: "Give every image a text alternative",
		Why:   "Screen readers announce images by their alt text. Without it users hear the file name or nothing at all.",
		How: []string{
			"Add an alt attribute describing the purpose of the image.",
			"Use alt=\"\" for purely decorative images so assistive technology skips them.",
			"Keep the text short; put long descriptions in the surrounding content.",
		},
		Example: `<img src="chart.png" alt="Sales rose 20% between January and March">`,
		Links: []Link{
			{Label: "Understanding SC 1.1.1 Non-text Content", Href: wcagUnderstanding + "non-text-content.html"},
			{Label: "H37: Using alt attributes on img elements", Href: wcagTechniques + "html/H37"},
		},
	},
	"color-contrast": {
		Title: "Increase text contrast",
		Why:   "Low contrast text is hard or impossible to read for people with low vision or in bright light.",
		How: []string{
			"Use a contrast ratio of at least 4.5:1 for normal text and 3:1 for large text.",
			"Check text placed over images or gradients at its lightest point.",
			"Adjust the foreground or background color rather than the font weight alone.",
		},
		Example: `.muted { color: #595959; background: #ffffff; } /* 7:1 */`,
		Links: []Link{
			{Label: "Understanding SC 1.4.3 Contrast (Minimum)", Href: wcagUnderstanding + "contrast-minimum.html"},
		},
	},
	"label": {
		Title: "Label every form control",
		Why:   "Without a label, screen reader users cannot tell what a field is for, and clicking the label text does not focus the field.",
		How: []string{
			"Associate a <label> with the control using for/id, or wrap the control in the label.",
			"Use aria-label or aria-labelledby only when a visible label is impossible.",
			"Do not rely on placeholder text as the only label.",
		},
		Example: `<label for="email">Email</label>
<input id="email" type="email" name="email">`,
		Links: []Link{
			{Label: "Understanding SC 1.3.1 Info and Relationships", Href: wcagUnderstanding + "info-and-relationships.html"},
			{Label: "Understanding SC 4.1.2 Name, Role, Value", Href: wcagUnderstanding + "name-role-value.html"},
		},
	},
	"link-name": {
		Title: "Give links discernible text",
		Why:   "Links are often navigated out of context. Icon-only or empty links are announced as \"link\" with no destination.",
		How: []string{
			"Put descriptive text inside the link.",
			"For icon links, add visually hidden text or aria-label.",
			"Give images used as links a meaningful alt attribute.",
		},
		Example: `<a href="/cart"><svg aria-hidden="true">...</svg><span class="sr-only">Shopping cart</span></a>`,
		Links: []Link{
			{Label: "Understanding SC 2.4.4 Link Purpose (In Context)", Href: wcagUnderstanding + "link-purpose-in-context.html"},
		},
	},
	"button-name": {
		Title: "Give buttons an accessible name",
		Why:   "A button with no name is announced as \"button\", leaving users to guess what it does.",
		How: []string{
			"Put text inside the <button> element.",
			"For icon buttons, add aria-label or visually hidden text.",
		},
		Example: `<button type="button" aria-label="Close dialog">&times;</button>`,
		Links: []Link{
			{Label: "Understanding SC 4.1.2 Name, Role, Value", Href: wcagUnderstanding + "name-role-value.html"},
		},
	},
	"html-has-lang": {
		Title: "Declare the page language",
		Why:   "Screen readers pick a pronunciation profile from the lang attribute. Without it, content may be read with the wrong voice.",
		How: []string{
			"Add a lang attribute to the <html> element.",
			"Use lang on inner elements for passages in another language.",
		},
		Example: `<html lang="en">`,
		Links: []Link{
			{Label: "Understanding SC 3.1.1 Language of Page", Href: wcagUnderstanding + "language-of-page.html"},
		},
	},
	"html-lang-valid": {
		Title: "Use a valid language code",
		Why:   "An unrecognised lang value is ignored by assistive technology.",
		How: []string{
			"Use a BCP 47 language tag such as en, en-GB or ja.",
		},
		Example: `<html lang="en-GB">`,
		Links: []Link{
			{Label: "Understanding SC 3.1.1 Language of Page", Href: wcagUnderstanding + "language-of-page.html"},
		},
	},
	"document-title": {
		Title: "Give the page a title",
		Why:   "The title is the first thing announced when a page loads and identifies the page in tabs and history.",
		How: []string{
			"Add a non-empty <title> inside <head>.",
			"Put the page-specific part first, followed by the site name.",
		},
		Example: `<title>Order history - Example Shop</title>`,
		Links: []Link{
			{Label: "Understanding SC 2.4.2 Page Titled", Href: wcagUnderstanding + "page-titled.html"},
		},
	},
	"heading-order": {
		Title: "Keep heading levels in sequence",
		Why:   "Screen reader users navigate by headings. Skipped levels suggest missing content and break the outline.",
		How: []string{
			"Increase heading levels one step at a time (h2 after h1, h3 after h2).",
			"Style headings with CSS instead of choosing a level for its size.",
		},
		Links: []Link{
			{Label: "Understanding SC 1.3.1 Info and Relationships", Href: wcagUnderstanding + "info-and-relationships.html"},
		},
	},
	"page-has-heading-one": {
		Title: "Add a level-one heading",
		Why:   "An h1 lets users jump straight to the main content and confirms which page they are on.",
		How: []string{
			"Add exactly one <h1> describing the page's main content.",
		},
		Example: `<h1>Checkout</h1>`,
	},
	"landmark-one-main": {
		Title: "Mark up the main content area",
		Why:   "A main landmark lets keyboard and screen reader users skip repeated navigation.",
		How: []string{
			"Wrap the primary content in a single <main> element.",
		},
		Example: `<main id="content">...</main>`,
		Links: []Link{
			{Label: "ARIA11: Using ARIA landmarks", Href: wcagTechniques + "aria/ARIA11"},
		},
	},
	"region": {
		Title: "Place content inside landmarks",
		Why:   "Content outside landmarks is easy to miss when navigating by region.",
		How: []string{
			"Put page content inside header, nav, main, aside or footer elements.",
			"Give repeated landmarks distinct labels with aria-label.",
		},
		Links: []Link{
			{Label: "ARIA11: Using ARIA landmarks", Href: wcagTechniques + "aria/ARIA11"},
		},
	},
	"aria-required-attr": {
		Title: "Provide required ARIA attributes",
		Why:   "Some roles need state attributes to be understood, e.g. a checkbox role without aria-checked has no state.",
		How: []string{
			"Add every attribute the role requires, such as aria-checked for role=\"checkbox\".",
			"Prefer native elements, which expose state automatically.",
		},
		Example: `<div role="checkbox" aria-checked="false" tabindex="0">Subscribe</div>`,
		Links: []Link{
			{Label: "Understanding SC 4.1.2 Name, Role, Value", Href: wcagUnderstanding + "name-role-value.html"},
		},
	},
	"aria-valid-attr-value": {
		Title: "Use valid ARIA attribute values",
		Why:   "Invalid values are ignored or misreported by assistive technology.",
		How: []string{
			"Check that ID references (aria-labelledby, aria-controls) point to existing elements.",
			"Use only the tokens allowed for each attribute, e.g. true/false for aria-expanded.",
		},
	},
	"list": {
		Title: "Only put list items inside lists",
		Why:   "Screen readers announce list size and position. Other children break that structure.",
		How: []string{
			"Ensure <ul> and <ol> contain only <li>, <script> or <template> children.",
		},
		Example: `<ul>
  <li>First</li>
  <li>Second</li>
</ul>`,
	},
	"listitem": {
		Title: "Put list items inside a list",
		Why:   "A stray <li> is not announced as part of a list.",
		How: []string{
			"Wrap <li> elements in a <ul> or <ol>.",
		},
	},
	"frame-title": {
		Title: "Title every frame",
		Why:   "Users need to know what an embedded frame contains before entering it.",
		How: []string{
			"Add a descriptive title attribute to each <iframe>.",
		},
		Example: `<iframe src="/map" title="Store location map"></iframe>`,
		Links: []Link{
			{Label: "H64: Using the title attribute of the iframe element", Href: wcagTechniques + "html/H64"},
		},
	},
	"duplicate-id-aria": {
		Title: "Make IDs referenced by ARIA unique",
		Why:   "When labels point at a duplicated ID, assistive technology may read the wrong element.",
		How: []string{
			"Give every element referenced by aria-labelledby, aria-describedby or for a unique id.",
		},
	},
	"meta-viewport": {
		Title: "Allow users to zoom",
		Why:   "Disabling zoom stops people with low vision from enlarging text on mobile devices.",
		How: []string{
			"Remove user-scalable=no from the viewport meta tag.",
			"Do not set maximum-scale below 5.",
		},
		Example: `<meta name="viewport" content="width=device-width, initial-scale=1">`,
		Links: []Link{
			{Label: "Understanding SC 1.4.4 Resize text", Href: wcagUnderstanding + "resize-text.html"},
		},
	},
	"select-name": {
		Title: "Label select elements",
		Why:   "An unlabelled drop-down gives no hint about what is being chosen.",
		How: []string{
			"Associate a <label> with the <select> using for/id.",
		},
		Example: `<label for="country">Country</label>
<select id="country">...</select>`,
	},
	"input-image-alt": {
		Title: "Give image buttons alternative text",
		Why:   "An <input type=\"image\"> acts as a button; without alt its action is unknown.",
		How: []string{
			"Add an alt attribute describing the action, not the picture.",
		},
		Example: `<input type="image" src="search.svg" alt="Search">`,
	},
	"bypass": {
		Title: "Provide a way to skip repeated content",
		Why:   "Keyboard users otherwise tab through the whole navigation on every page.",
		How: []string{
			"Add a \"Skip to content\" link as the first focusable element.",
			"Or structure the page with landmarks and headings.",
		},
		Example: `<a class="skip-link" href="#content">Skip to content</a>`,
		Links: []Link{
			{Label: "Understanding SC 2.4.1 Bypass Blocks", Href: wcagUnderstanding + "bypass-blocks.html"},
		},
	},
	"tabindex": {
		Title: "Avoid positive tabindex values",
		Why:   "Positive values reorder keyboard focus away from the visual order.",
		How: []string{
			"Use tabindex=\"0\" to make an element focusable and tabindex=\"-1\" for programmatic focus.",
			"Fix focus order by reordering the DOM instead.",
		},
	},
}

// Lookup returns the guide for ruleID.
func Lookup(ruleID string) (FixGuide, bool) {
	g, ok := guides[ruleID]
	if !ok {
		return FixGuide{}, false
	}
	return clone(g), true
}

// All returns a copy of every guide keyed by rule id.
func All() map[string]FixGuide {
	result := make(map[string]FixGuide, len(guides))
	for id, g := range guides {
		result[id] = clone(g)
	}
	return result
}

// IDs returns the rule ids that have a guide, sorted.
func IDs() []string {
	ids := make([]string, 0, len(guides))
	for id := range guides {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// clone copies the slices in g so callers cannot alter the table.
func clone(g FixGuide) FixGuide {
	g.How = slices.Clone(g.How)
	g.Links = slices.Clone(g.Links)
	return g
}
