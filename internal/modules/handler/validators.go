package handler

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/projcalc/estimator/internal/pkg/estimate"
)

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator. Safe to
// call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		registerOn(v)
	})
}

func registerOn(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("fixed2", decimalRule(estimate.FitsPrecision))
	_ = v.RegisterValidation("dpositive", decimalRule(decimal.Decimal.IsPositive))
	_ = v.RegisterValidation("dnonnegative", decimalRule(func(d decimal.Decimal) bool { return !d.IsNegative() }))

	v.RegisterStructValidation(estimateOrder, FeatureReq{})
}

func decimalRule(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && ok(d)
	}
}

// estimateOrder requires best <= most likely <= worst case.
func estimateOrder(sl validator.StructLevel) {
	req := sl.Current().Interface().(FeatureReq)
	if req.BestCaseEstimateInDays == nil || req.MostLikelyEstimateInDays == nil || req.WorstCaseEstimateInDays == nil {
		return
	}
	if req.BestCaseEstimateInDays.GreaterThan(*req.MostLikelyEstimateInDays) {
		sl.ReportError(req.MostLikelyEstimateInDays, "most_likely_estimate_in_days", "MostLikelyEstimateInDays", "estimate_order", "")
	}
	if req.MostLikelyEstimateInDays.GreaterThan(*req.WorstCaseEstimateInDays) {
		sl.ReportError(req.WorstCaseEstimateInDays, "worst_case_estimate_in_days", "WorstCaseEstimateInDays", "estimate_order", "")
	}
}
