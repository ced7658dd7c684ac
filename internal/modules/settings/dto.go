package settings

// UpdateSettingsRequest carries partial updates; absent fields keep their
// current value.
type UpdateSettingsRequest struct {
	Bookings         *bool `json:"bookings"`
	Messages         *bool `json:"messages"`
	ShowOnlineStatus *bool `json:"show_online_status"`
	ShowLocation     *bool `json:"show_location"`
}
