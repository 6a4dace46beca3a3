package decoder

import (
	"net/url"

	"github.com/gorilla/schema"
)

// URLDecoder decodes query-string parameters into structs tagged with
// `schema` tags. Unknown keys are ignored so clients can pass extra params
// without failing the whole request.
type URLDecoder struct {
	dec *schema.Decoder
}

func New() *URLDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &URLDecoder{dec: dec}
}

func (d *URLDecoder) Decode(dst any, src url.Values) error {
	return d.dec.Decode(dst, src)
}
