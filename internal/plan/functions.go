package plan

import (
	"fmt"

	"github.com/vk/shiftgrid/internal/slot"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
)

// spanFunc builds a canonical range string: span("9:00", "12:30").
var spanFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "from", Type: cty.String},
		{Name: "to", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var from, to string
		if err := gocty.FromCtyValue(args[0], &from); err != nil {
			return cty.NilVal, err
		}
		if err := gocty.FromCtyValue(args[1], &to); err != nil {
			return cty.NilVal, err
		}

		start, ok := slot.Normalize(from)
		if !ok {
			return cty.NilVal, function.NewArgErrorf(0, "invalid time %q", from)
		}
		end, ok := slot.Normalize(to)
		if !ok {
			return cty.NilVal, function.NewArgErrorf(1, "invalid time %q", to)
		}
		return cty.StringVal(slot.FormatRange(start, end)), nil
	},
})

// slotTimeFunc renders a slot index as a time: slot_time(19) is "09:30".
var slotTimeFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "slot", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var n float64
		if err := gocty.FromCtyValue(args[0], &n); err != nil {
			return cty.NilVal, err
		}
		t := slot.ValueToTime(n)
		if t == slot.Unknown {
			return cty.NilVal, function.NewArgErrorf(0, "slot must be a non-negative integer, got %s", args[0].AsBigFloat().String())
		}
		return cty.StringVal(t), nil
	},
})

// timeSlotFunc is the inverse of slot_time: time_slot("09:30") is 19.
var timeSlotFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "time", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		s, ok := slot.TimeToSlot(args[0].AsString())
		if !ok {
			return cty.NilVal, function.NewArgErrorf(0, "invalid time %q", args[0].AsString())
		}
		v, err := gocty.ToCtyValue(s, cty.Number)
		if err != nil {
			return cty.NilVal, fmt.Errorf("slot %d: %w", s, err)
		}
		return v, nil
	},
})

// Functions is the function table available to plan expressions.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"span":      spanFunc,
		"slot_time": slotTimeFunc,
		"time_slot": timeSlotFunc,
	}
}
