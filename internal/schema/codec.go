package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"socialhub/internal/blob"
)

// Codec 按模板构建的校验+编码/解码对。本身无共享可变状态，
// 每次 Encode/Decode 只是 (fields, input) 的纯函数，可并发使用。
type Codec struct {
	blobs blob.Store
	log   *zap.Logger
}

func NewCodec(blobs blob.Store, log *zap.Logger) *Codec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Codec{blobs: blobs, log: log}
}

// Encode 按模板顺序逐字段校验并编码一次提交。
// 任一字段失败则整体拒绝并聚合全部错误，不写入任何部分记录；
// 模板内不在提交里的字段编码为 nil/空，提交里不在模板内的键被忽略。
func (c *Codec) Encode(fields []Field, sub *Submission) (map[string]any, error) {
	if sub == nil {
		sub = &Submission{}
	}
	if sub.Values == nil {
		sub.Values = map[string]string{}
	}
	if sub.Files == nil {
		sub.Files = map[string]*FileUpload{}
	}

	var errs ValidationErrors
	record := make(map[string]any, len(fields))
	for _, f := range fields {
		fc, ok := registry[f.Type]
		if !ok {
			c.log.Error("template references unregistered field type",
				zap.String("field", f.Name), zap.String("type", string(f.Type)))
			return nil, unknownType(f.Name, string(f.Type))
		}
		v, fieldErrs, err := fc.encode(c, f, sub)
		if err != nil {
			return nil, err
		}
		if len(fieldErrs) > 0 {
			// 不短路，把所有问题一次性带给调用方
			errs = append(errs, fieldErrs...)
			continue
		}
		record[f.Name] = v
	}
	if len(errs) > 0 {
		return nil, errs
	}
	// 全部字段通过后才执行上传这类持久副作用
	for _, f := range fields {
		file, ok := record[f.Name].(*FileUpload)
		if !ok || file == nil {
			continue
		}
		key, _, err := c.blobs.Put("", bytes.NewReader(file.Content))
		if err != nil {
			return nil, fmt.Errorf("store image for field '%s': %w", f.Name, err)
		}
		record[f.Name] = key
	}
	return record, nil
}

// EncodeJSON 编码并序列化为入库用的 JSON 文本
func (c *Codec) EncodeJSON(fields []Field, sub *Submission) (string, error) {
	record, err := c.Encode(fields, sub)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Normalize 把已存储的 data 统一成结构化映射。
// 允许结构化 map、[]byte、以及历史遗留的 JSON 字符串三种形态；
// 损坏的字符串降级为空记录并记一条 warn，不向上抛错。
func (c *Codec) Normalize(stored any) map[string]any {
	switch v := stored.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	case []byte:
		return c.unmarshalStored(v)
	case string:
		return c.unmarshalStored([]byte(v))
	default:
		c.log.Warn("stored record has unexpected shape, substituting empty record")
		return map[string]any{}
	}
}

func (c *Codec) unmarshalStored(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		c.log.Warn("malformed stored record, substituting empty record", zap.Error(err))
		return map[string]any{}
	}
	if m == nil {
		return map[string]any{}
	}
	return m
}

// Decode 按模板把已存储的记录还原成类型化值供展示/再编辑。
// 输出对模板内每个字段都有键；单个坏值降级为该字段的零形态。
func (c *Codec) Decode(fields []Field, stored any) (map[string]any, error) {
	data := c.Normalize(stored)
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fc, ok := registry[f.Type]
		if !ok {
			c.log.Error("template references unregistered field type",
				zap.String("field", f.Name), zap.String("type", string(f.Type)))
			return nil, unknownType(f.Name, string(f.Type))
		}
		out[f.Name] = fc.decode(c, f, data[f.Name])
	}
	return out, nil
}
