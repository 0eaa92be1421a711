// Package classify turns raw database cell values into their exported text
// representation, externalizing image payloads through a Sink.
package classify

import (
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"strings"

	"pgexport/constants"
)

// Sink persists a sniffed binary payload and returns the path that stands in
// for it in the CSV.
type Sink interface {
	Save(data []byte, column string, format constants.ImageFormat) (string, error)
}

// Classifier decides, per cell, whether a value is exported inline or
// externalized to the image sink.
type Classifier struct {
	sink   Sink
	logger *slog.Logger
}

func NewClassifier(sink Sink, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{sink: sink, logger: logger}
}

const dataImagePrefix = "data:image"

// Classify returns the exported string for one (value, column) pair.
//
//   - null            -> ""
//   - bytes + image   -> saved file path
//   - bytes otherwise -> lowercase hex (raw bytes never reach the CSV)
//   - "data:image..." -> decoded and saved when valid, original text otherwise
//   - anything else   -> canonical string form
//
// Only sink I/O failures surface as errors; malformed base64 is swallowed
// and the original text kept, so one bad cell cannot abort its row.
func (c *Classifier) Classify(v CellValue, column string) (string, error) {
	switch v.Kind {
	case KindNull:
		return "", nil
	case KindBytes:
		if format, ok := SniffFormat(v.Bytes); ok {
			return c.sink.Save(v.Bytes, column, format)
		}
		return hex.EncodeToString(v.Bytes), nil
	case KindText:
		if strings.HasPrefix(v.Text, dataImagePrefix) {
			return c.classifyDataURI(v.Text, column)
		}
		return v.Text, nil
	default:
		return v.String(), nil
	}
}

// classifyDataURI attempts to externalize an embedded base64 image. Every
// failure path returns the original text: text-origin data is never
// hex-encoded and decode errors are non-fatal.
func (c *Classifier) classifyDataURI(s, column string) (string, error) {
	_, payload, found := strings.Cut(s, ",")
	if !found {
		return s, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		c.logger.Debug("embedded image decode failed, keeping text", "column", column, "err", err)
		return s, nil
	}
	format, ok := SniffFormat(decoded)
	if !ok {
		return s, nil
	}
	return c.sink.Save(decoded, column, format)
}
