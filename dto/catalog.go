package dto

type CaseResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Specialty  string `json:"specialty"`
	Modality   string `json:"modality"`
	BodyPart   string `json:"body_part"`
	Difficulty int    `json:"difficulty"`
	ImageURL   string `json:"image_url"`
}

type CaseFilterRequest struct {
	Specialty  string `json:"specialty" query:"specialty"`
	Modality   string `json:"modality" query:"modality"`
	BodyPart   string `json:"body_part" query:"body_part"`
	Difficulty int    `json:"difficulty" query:"difficulty" validate:"gte=0,lte=5"`
	Limit      int    `json:"limit" query:"limit" validate:"gte=0,lte=100"`
}

func (r CaseFilterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CaseListResponse struct {
	Cases []CaseResponse `json:"cases"`
	Total int            `json:"total"`
}
