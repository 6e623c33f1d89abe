package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// Bind decodes req.Body.Msg into dst using its mapstructure tags. Numbers
// sent as strings are accepted.
func Bind(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	if req.Body.Msg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}
