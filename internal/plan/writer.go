package plan

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/shiftgrid/internal/jobs"
	"github.com/zclconf/go-cty/cty"
)

// EncodeJobs renders committed jobs as job blocks that Load reads back.
func EncodeJobs(defs []jobs.Definition) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, d := range defs {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("job", []string{d.Code})
		times := make([]cty.Value, len(d.Times))
		for j, t := range d.Times {
			times[j] = cty.StringVal(t)
		}
		if len(times) == 0 {
			block.Body().SetAttributeValue("times", cty.ListValEmpty(cty.String))
		} else {
			block.Body().SetAttributeValue("times", cty.ListVal(times))
		}
	}
	return f.Bytes()
}
