package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"socialhub/internal/pkg"
	"socialhub/internal/repository/mysql"
	"socialhub/internal/schema"
)

// ExportService 把一个模板下的帖子导出为 CSV，
// 基础列 + 模板字段各一列，值经 codec 解码
type ExportService struct {
	postRepo     *mysql.PostRepository
	templateRepo *mysql.TemplateRepository
	codec        *schema.Codec
}

func NewExportService(db *gorm.DB, codec *schema.Codec) *ExportService {
	return &ExportService{
		postRepo:     &mysql.PostRepository{DB: db},
		templateRepo: &mysql.TemplateRepository{DB: db},
		codec:        codec,
	}
}

func (s *ExportService) ExportTemplateCSV(templateID uint64, w io.Writer) error {
	if _, err := s.templateRepo.FindByID(templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	fields, err := s.templateRepo.FieldsOf(templateID)
	if err != nil {
		return err
	}
	posts, err := s.postRepo.ListByTemplate(templateID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "title", "author_id", "created_at"}
	for _, f := range fields {
		header = append(header, f.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, post := range posts {
		decoded, err := s.codec.Decode(fields, post.Data)
		if err != nil {
			return err
		}
		row := []string{
			fmt.Sprintf("%d", post.ID),
			post.Title,
			fmt.Sprintf("%d", post.AuthorID),
			post.CreatedAt.UTC().Format(time.RFC3339),
		}
		for _, f := range fields {
			row = append(row, csvCell(decoded[f.Name]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case schema.GeoPoint:
		lat, lng := "", ""
		if t.Latitude != nil {
			lat = fmt.Sprintf("%g", *t.Latitude)
		}
		if t.Longitude != nil {
			lng = fmt.Sprintf("%g", *t.Longitude)
		}
		return lat + "," + lng
	default:
		return fmt.Sprint(t)
	}
}
