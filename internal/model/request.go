package model

type CreateBookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Note  string `json:"note"`
}

type UpdateBookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Note  string `json:"note"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}
