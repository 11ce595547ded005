package backup

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository"
)

// legacyFields renames the field names written by the offline browser app,
// per collection, onto the current JSON names.
var legacyFields = map[string]map[string]string{
	repository.CollectionAnimals: {
		"arete": "tag",
		"finca": "farm",
		"sexo":  "sex",
		"raza":  "breed",
	},
	repository.CollectionMilk: {
		"m": "morning",
		"t": "evening",
	},
	repository.CollectionBoosters: {
		"finca": "farm",
	},
	repository.CollectionRepro: {
		"parto": "parturition",
		"celo":  "lastHeat",
		"insem": "insemination",
		"pre":   "pregnancy",
	},
	repository.CollectionCheeseSales: {
		"lbs":   "pounds",
		"price": "pricePerPound",
	},
	repository.CollectionMilkPurchase: {
		"vl": "pricePerLiter",
	},
	repository.CollectionTransport: {
		"qty": "quantity",
	},
	repository.CollectionFixedCosts: {
		"value": "monthlyValue",
	},
	repository.CollectionRawBovines: {
		"nombreArete": "tagName",
		"estadoNota":  "statusNote",
		"edad":        "age",
		"peso":        "weight",
	},
	repository.CollectionMedications: {
		"nombre":        "name",
		"fecha":         "date",
		"procedimiento": "procedure",
		"responsable":   "responsible",
		"costo":         "cost",
		"finca":         "farm",
		"notas":         "notes",
	},
}

var timeType = reflect.TypeOf(time.Time{})

// UnmarshalJSON accepts both the current document and the one exported by the
// offline browser app, whose timestamps are epoch milliseconds and whose
// field names are Spanish shorthands. Unknown fields are ignored.
func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if data, ok := raw["data"].(map[string]any); ok {
		for name, items := range data {
			list, ok := items.([]any)
			if !ok {
				continue
			}
			for _, item := range list {
				if rec, ok := item.(map[string]any); ok {
					normalizeRecord(name, rec)
				}
			}
		}
	}

	var out Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       timestampHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode backup document: %w", err)
	}
	*d = out
	return nil
}

func normalizeRecord(collection string, rec map[string]any) {
	for legacy, current := range legacyFields[collection] {
		v, ok := rec[legacy]
		if !ok {
			continue
		}
		delete(rec, legacy)
		if _, taken := rec[current]; !taken {
			rec[current] = v
		}
	}

	switch collection {
	case repository.CollectionAnimals:
		if v, ok := rec["sex"].(string); ok {
			rec["sex"] = string(models.ParseSex(v))
		}
	case repository.CollectionRepro:
		if v, ok := rec["pregnancy"].(string); ok {
			rec["pregnancy"] = string(models.ParsePregnancy(v))
		}
	case repository.CollectionBoosters:
		if unset(rec["doneAt"]) {
			delete(rec, "doneAt")
		}
	}
}

func unset(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return t == 0
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// timestampHook reads times as RFC 3339 text or epoch milliseconds. Zero and
// empty values become the zero time.
func timestampHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		return fromMillis(v), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return time.Time{}, nil
		}
		if ms, err := strconv.ParseFloat(v, 64); err == nil {
			return fromMillis(ms), nil
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("timestamp %q: %w", v, err)
		}
		return t, nil
	}
	return data, nil
}

func fromMillis(ms float64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}
