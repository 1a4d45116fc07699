package quiz

// Question is one multiple-choice item: identify the product in the images.
type Question struct {
	// QuestionNumber is 1-based, in selection order.
	QuestionNumber int `json:"questionNumber"`

	LensImageURL      string `json:"lensImageUrl"`
	ThumbnailImageURL string `json:"thumbnailImageUrl"`

	CorrectAnswer CorrectAnswer `json:"correctAnswer"`

	// Options holds the correct answer and its distractors, shuffled.
	// Usually four; fewer when the catalog cannot supply enough distractors.
	Options []AnswerOption `json:"options"`

	Hint1 Hint1 `json:"hint1"`
	Hint2 Hint2 `json:"hint2"`
}

// CorrectAnswer carries the identifying fields of the pictured product.
type CorrectAnswer struct {
	OriginalCode string `json:"originalCode"`
	Brand        string `json:"brand"`
	ColorName    string `json:"colorName"`
	WearPeriod   string `json:"wearPeriod"`
}

// AnswerOption is one selectable answer. ID is stamped before shuffling:
// 1 for the correct answer, 2.. for distractors.
type AnswerOption struct {
	ID        int    `json:"id"`
	BrandName string `json:"brandName"`
	ColorName string `json:"colorName"`
	IsCorrect bool   `json:"isCorrect"`
}

// Hint1 is the lens spec hint. Missing values are empty strings.
type Hint1 struct {
	Dia  string `json:"dia"`
	GDia string `json:"gdia"`
	BC   string `json:"bc"`
}

// Hint2 is the sales comment hint.
type Hint2 struct {
	Comment string `json:"comment"`
}

// Result is the boundary response for question generation.
type Result struct {
	Success   bool       `json:"success"`
	Questions []Question `json:"questions"`
	Message   string     `json:"message"`
}
