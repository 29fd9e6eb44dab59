package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldType 模板字段的类型标签
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeTextArea    FieldType = "textArea"
	TypeNumber      FieldType = "number"
	TypeFloat       FieldType = "float"
	TypeDate        FieldType = "date"
	TypeTime        FieldType = "time"
	TypeImage       FieldType = "image"
	TypeColor       FieldType = "color"
	TypeURL         FieldType = "url"
	TypeEmail       FieldType = "email"
	TypePhone       FieldType = "phone"
	TypeGeolocation FieldType = "geolocation"
)

// Field 一个模板字段的定义，顺序由所属模板决定
type Field struct {
	Name string
	Type FieldType
}

// GeoPoint geolocation 的存储与展示形态；任一边可为空
type GeoPoint struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// FileUpload 随提交到达的二进制负载
type FileUpload struct {
	Filename string
	Content  []byte
}

// Submission 一次原始提交：字符串值按字段名索引，
// geolocation 以 <name>_latitude / <name>_longitude 两个键到达
type Submission struct {
	Values map[string]string
	Files  map[string]*FileUpload
}

type fieldCodec struct {
	// encode 从提交里取原始值，校验并产出可入库的原语
	encode func(c *Codec, f Field, sub *Submission) (any, []FieldError, error)
	// decode 从已存储的原语还原展示用的类型化值；坏值降级为 nil
	decode func(c *Codec, f Field, raw any) any
}

// registry 在启动期闭合：新增类型只加一个表项，不碰调用点
var registry = map[FieldType]fieldCodec{
	TypeText:        {encode: encodeString, decode: decodeString},
	TypeTextArea:    {encode: encodeString, decode: decodeString},
	TypeColor:       {encode: encodeString, decode: decodeString},
	TypeURL:         {encode: encodeString, decode: decodeString},
	TypeEmail:       {encode: encodeString, decode: decodeString},
	TypePhone:       {encode: encodeString, decode: decodeString},
	TypeNumber:      {encode: encodeNumber, decode: decodeNumber},
	TypeFloat:       {encode: encodeFloat, decode: decodeFloat},
	TypeDate:        {encode: encodeDate, decode: decodeDate},
	TypeTime:        {encode: encodeTime, decode: decodeTime},
	TypeImage:       {encode: encodeImage, decode: decodeImage},
	TypeGeolocation: {encode: encodeGeolocation, decode: decodeGeolocation},
}

// KnownType 供模板创建阶段做闭合校验
func KnownType(t FieldType) bool {
	_, ok := registry[t]
	return ok
}

// ValidateFields 模板创建期的字段定义校验：空名、未知类型、同模板内重名
func ValidateFields(fields []Field) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			errs = append(errs, ferr(ErrEmptyName, fmt.Sprintf("fields[%d]", i), "field name must not be empty"))
			continue
		}
		if !KnownType(f.Type) {
			errs = append(errs, ferr(ErrBadType, name, "unknown field type '"+string(f.Type)+"'"))
		}
		if seen[name] {
			errs = append(errs, ferr(ErrDuplicate, name, "duplicate field name '"+name+"' in one template"))
		}
		seen[name] = true
	}
	return errs
}

// ---- per-type encoders ----

func encodeString(_ *Codec, f Field, sub *Submission) (any, []FieldError, error) {
	// 纯字符串类型只做承接，不做格式校验
	return sub.Values[f.Name], nil, nil
}

func encodeNumber(_ *Codec, f Field, sub *Submission) (any, []FieldError, error) {
	s := strings.TrimSpace(sub.Values[f.Name])
	if s == "" {
		return nil, nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, []FieldError{ferr(ErrTypeMismatch, f.Name, "must be an integer")}, nil
	}
	return n, nil, nil
}

func encodeFloat(_ *Codec, f Field, sub *Submission) (any, []FieldError, error) {
	s := strings.TrimSpace(sub.Values[f.Name])
	if s == "" {
		return nil, nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, []FieldError{ferr(ErrTypeMismatch, f.Name, "must be a number")}, nil
	}
	return v, nil, nil
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`) // YYYY-MM-DD

// 坐标只收普通十进制写法，指数形式会绕过位数预算
var decimalRe = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

func encodeDate(_ *Codec, f Field, sub *Submission) (any, []FieldError, error) {
	s := strings.TrimSpace(sub.Values[f.Name])
	if s == "" {
		return nil, nil, nil
	}
	if !dateRe.MatchString(s) {
		return nil, []FieldError{ferr(ErrTypeMismatch, f.Name, "must match YYYY-MM-DD")}, nil
	}
	// 日历正确性
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return nil, []FieldError{ferr(ErrTypeMismatch, f.Name, "invalid date")}, nil
	}
	return s, nil, nil
}

func encodeTime(_ *Codec, f Field, sub *Submission) (any, []FieldError, error) {
	s := strings.TrimSpace(sub.Values[f.Name])
	if s == "" {
		return nil, nil, nil
	}
	// HTML time input 给 HH:MM，也接受带秒的形式，统一存 HH:MM:SS
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	if err != nil {
		return nil, []FieldError{ferr(ErrTypeMismatch, f.Name, "must be a valid time of day")}, nil
	}
	return t.Format("15:04:05"), nil, nil
}

func encodeImage(_ *Codec, f Field, sub *Submission) (any, []FieldError, error) {
	file := sub.Files[f.Name]
	if file == nil {
		return nil, nil, nil
	}
	if len(file.Content) == 0 {
		return nil, []FieldError{ferr(ErrEmptyPayload, f.Name, "image payload is empty")}, nil
	}
	// 先只校验；真正的上传等整次提交通过后在 Encode 第二遍做，
	// 避免被拒绝的提交留下孤儿 blob
	return file, nil, nil
}

// 坐标为十进制小数：总位数不超过 9，小数点后不超过 6
func parseCoordinate(field, suffix, s string) (*float64, *FieldError) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !decimalRe.MatchString(s) {
		fe := ferr(ErrTypeMismatch, field+"_"+suffix, "must be a decimal")
		return nil, &fe
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	intPart, fracPart, _ := strings.Cut(digits, ".")
	if len(intPart)+len(fracPart) > 9 || len(fracPart) > 6 {
		fe := ferr(ErrPrecision, field+"_"+suffix, "at most 9 digits with 6 decimal places")
		return nil, &fe
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fe := ferr(ErrTypeMismatch, field+"_"+suffix, "must be a decimal")
		return nil, &fe
	}
	return &v, nil
}

func encodeGeolocation(_ *Codec, f Field, sub *Submission) (any, []FieldError, error) {
	var errs []FieldError
	lat, fe := parseCoordinate(f.Name, "latitude", sub.Values[f.Name+"_latitude"])
	if fe != nil {
		errs = append(errs, *fe)
	}
	lng, fe := parseCoordinate(f.Name, "longitude", sub.Values[f.Name+"_longitude"])
	if fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}
	return GeoPoint{Latitude: lat, Longitude: lng}, nil, nil
}

// ---- per-type decoders ----

func decodeString(_ *Codec, _ Field, raw any) any {
	if raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

func decodeNumber(_ *Codec, _ Field, raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case int64:
		return v
	case float64: // JSON 数字经 unmarshal 后是 float64
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return nil
}

func decodeFloat(_ *Codec, _ Field, raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			return x
		}
	}
	return nil
}

func decodeDate(_ *Codec, _ Field, raw any) any {
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return t
}

func decodeTime(_ *Codec, _ Field, raw any) any {
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	if _, err := time.Parse("15:04:05", s); err != nil {
		return nil
	}
	return s
}

func decodeImage(_ *Codec, _ Field, raw any) any {
	// 解码返回存储引用，不是原始字节
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	return s
}

func decodeGeolocation(_ *Codec, _ Field, raw any) any {
	switch v := raw.(type) {
	case GeoPoint:
		return v
	case map[string]any:
		var p GeoPoint
		if lat, ok := v["latitude"].(float64); ok {
			p.Latitude = &lat
		}
		if lng, ok := v["longitude"].(float64); ok {
			p.Longitude = &lng
		}
		return p
	}
	return GeoPoint{}
}
