package rest

const (
	routeLogin  = "/auth/login"
	routeLogout = "/auth/logout"

	routeTabs             = "/tour-tabs"
	routeTab              = "/tour-tabs/{id}"
	routeTabPreview       = "/tour-tabs/{id}/preview"
	routeTabToggle        = "/tour-tabs/{id}/toggle-status"
	routeConditionOptions = "/tour-tabs/condition-options"

	routeFestivals          = "/festival-holidays"
	routeFestival           = "/festival-holidays/{id}"
	routeFestivalToggle     = "/festival-holidays/{id}/toggle-status"
	routeFestivalPreview    = "/festival-holidays/{id}/preview-tours"
	routeFestivalImage      = "/festival-holidays/{id}/image"
	routeFestivalCoverImage = "/festival-holidays/{id}/cover-image"

	routePageSettings      = "/festival-page-settings"
	routePageSettingsCover = "/festival-page-settings/cover-image"
)

// multipart field names of the image endpoints
const (
	fieldImage      = "image"
	fieldCoverImage = "cover_image"
)
