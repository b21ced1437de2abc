// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-sysgov
//
// go-sysgov is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-sysgov is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-sysgov.  If not, see <https://www.gnu.org/licenses/>.

package protocol

import (
	"github.com/algorand/go-codec/codec"
)

// MsgpHandle encodes table rows in the key-value store and actions on the
// wire. Encoding is canonical; decoding fails on fields the target type does
// not have.
var MsgpHandle = newMsgpHandle()

// JSONHandle encodes API answers, journal payloads and the genesis, config
// and block files. Decoding is as strict as MsgpHandle.
var JSONHandle = newJSONHandle()

func newMsgpHandle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.Canonical = true
	h.RecursiveEmptyCheck = true
	h.ErrorIfNoField = true
	h.ErrorIfNoArrayExpand = true
	h.WriteExt = true
	h.PositiveIntUnsigned = true
	return h
}

func newJSONHandle() *codec.JsonHandle {
	h := new(codec.JsonHandle)
	h.Canonical = true
	h.RecursiveEmptyCheck = true
	h.ErrorIfNoField = true
	h.ErrorIfNoArrayExpand = true
	h.HTMLCharsAsIs = true
	h.Indent = 2
	return h
}

// EncodeMsgp returns the msgpack encoding of obj. Rows with codec
// ",omitempty" tags encode their zero fields to nothing.
func EncodeMsgp(obj interface{}) []byte {
	var b []byte
	codec.NewEncoderBytes(&b, MsgpHandle).MustEncode(obj)
	return b
}

// DecodeMsgp decodes b into objptr.
func DecodeMsgp(b []byte, objptr interface{}) error {
	return codec.NewDecoderBytes(b, MsgpHandle).Decode(objptr)
}

// EncodeJSON returns the indented JSON encoding of obj.
func EncodeJSON(obj interface{}) []byte {
	var b []byte
	codec.NewEncoderBytes(&b, JSONHandle).MustEncode(obj)
	return b
}

// DecodeJSON decodes b into objptr.
func DecodeJSON(b []byte, objptr interface{}) error {
	return codec.NewDecoderBytes(b, JSONHandle).Decode(objptr)
}
