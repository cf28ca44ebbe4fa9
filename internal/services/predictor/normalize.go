package predictor

import (
	"errors"
	"math"
	"strconv"

	"CryptoBasket/internal/domain/models"
	"CryptoBasket/pkg/util"

	"github.com/guregu/null/v6"
	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidPayload is returned for bodies that are not a JSON point list.
	ErrInvalidPayload = errors.New("predictor payload is not a point array")
	// ErrEmptyPayload is returned when the point list has no entries.
	ErrEmptyPayload = errors.New("predictor payload is empty")
)

// Accepted key spellings, in lookup order.
var (
	labelKeys     = []string{"Date", "date", "name"}
	actualKeys    = []string{"Close_Real", "actual", "atual"}
	predictedKeys = []string{"Close_Previsto", "predicted", "previsto"}
)

// NormalizePoints maps a predictor body onto PredictionPoints. The body is
// either a JSON array of objects or an object wrapping one under "data".
func NormalizePoints(body []byte) ([]models.PredictionPoint, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidPayload
	}
	root := gjson.ParseBytes(body)
	if root.IsObject() {
		root = root.Get("data")
	}
	if !root.IsArray() {
		return nil, ErrInvalidPayload
	}

	items := root.Array()
	if len(items) == 0 {
		return nil, ErrEmptyPayload
	}
	out := make([]models.PredictionPoint, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			continue
		}
		label := first(item, labelKeys).String()
		if label == "" {
			label = "Day " + strconv.Itoa(i)
		}
		out = append(out, models.PredictionPoint{
			Label:     label,
			Actual:    number(first(item, actualKeys)),
			Predicted: number(first(item, predictedKeys)),
		})
	}
	if len(out) == 0 {
		return nil, ErrInvalidPayload
	}
	return out, nil
}

func first(item gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// number accepts JSON numbers and numeric strings; anything else is null.
func number(v gjson.Result) null.Float {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		parsed, ok := util.ParseFloat(v.Str)
		if !ok {
			return null.Float{}
		}
		f = parsed
	default:
		return null.Float{}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}
