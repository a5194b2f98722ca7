package memo

import (
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
)

type Memo struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

func (m Memo) GetID() int64 { return m.ID }

type MemoDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

func (dto MemoDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("content", dto.Content).Required()
	v.Field("date", dto.Date).Required().Date()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
