package mapping

// FieldPublishingPageImage is the publishing field holding the page image HTML.
const FieldPublishingPageImage = "PublishingPageImage"

// DefaultPageLayout builds the mapping used for a page layout that the mapping
// file does not mention: a full width custom header fed by the page image.
func DefaultPageLayout(name string) *PageLayout {
	return &PageLayout{
		Name:       name,
		PageHeader: HeaderModeCustom,
		Header: Header{
			Type:              HeaderTypeFullWidthImage,
			Alignment:         HeaderAlignmentLeft,
			ShowPublishedDate: false,
			Fields: []HeaderField{
				{
					Name:           FieldPublishingPageImage,
					HeaderProperty: HeaderPropertyImageServerRelativeURL,
					Functions:      "ToImageUrl({" + FieldPublishingPageImage + "})",
				},
				{
					Name:           FieldPublishingPageImage,
					HeaderProperty: HeaderPropertyAlternativeText,
					Functions:      "ToImageAltText({" + FieldPublishingPageImage + "})",
				},
			},
		},
	}
}
