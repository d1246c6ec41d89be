package components

// Frame sizes shared by bordered components
const (
	BorderWidth          = 2 // left + right border
	BorderHeight         = 2 // top + bottom border
	ScrollIndicatorLines = 2 // "↑ more" + "↓ more"
)
