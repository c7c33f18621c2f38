// Zaparoo Catalog
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Catalog.
//
// Zaparoo Catalog is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Catalog is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Catalog.  If not, see <http://www.gnu.org/licenses/>.

// Package htmlstream turns raw HTML into an ordered stream of tag events.
//
// It never builds a tree. Consumers see start tags with their attributes,
// end tags and raw text exactly in document order, one token at a time.
package htmlstream

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// Kind identifies the type of tag event.
type Kind uint8

const (
	KindStartTag Kind = iota
	KindEndTag
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindStartTag:
		return "start"
	case KindEndTag:
		return "end"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Attr is a single name/value attribute pair. Names are lower-cased by the
// tokenizer, values are left as written (entities decoded).
type Attr struct {
	Key string
	Val string
}

// Event is one item of the tag event stream.
type Event struct {
	Name  string // tag name for start/end events
	Text  string // raw, non-unescaped text for text events
	Attrs []Attr // ordered attributes for start events
	Kind  Kind
}

// Attr returns the value of the first attribute named key.
func (e *Event) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// IsStart reports whether the event is a start tag with the given name.
func (e *Event) IsStart(name string) bool {
	return e.Kind == KindStartTag && e.Name == name
}

// IsEnd reports whether the event is an end tag with the given name.
func (e *Event) IsEnd(name string) bool {
	return e.Kind == KindEndTag && e.Name == name
}

// HasClass reports whether the class attribute contains the given token.
func (e *Event) HasClass(class string) bool {
	v, ok := e.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Events returns the tag event stream of r. Self-closing tags produce a
// start event immediately followed by an end event. Comments and doctypes
// are dropped. The stream ends at EOF or on the first read error.
func Events(r io.Reader) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		z := html.NewTokenizer(r)
		for {
			tt := z.Next()
			switch tt {
			case html.ErrorToken:
				if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
					log.Debug().Err(err).Msg("html tokenizer stopped early")
				}
				return
			case html.TextToken:
				// Raw is only valid until the next call to Next
				if !yield(Event{Kind: KindText, Text: string(z.Raw())}) {
					return
				}
			case html.StartTagToken:
				if !yield(startEvent(z)) {
					return
				}
			case html.SelfClosingTagToken:
				ev := startEvent(z)
				if !yield(ev) {
					return
				}
				if !yield(Event{Kind: KindEndTag, Name: ev.Name}) {
					return
				}
			case html.EndTagToken:
				name, _ := z.TagName()
				if !yield(Event{Kind: KindEndTag, Name: string(name)}) {
					return
				}
			case html.CommentToken, html.DoctypeToken:
				continue
			}
		}
	}
}

// EventsFromBytes is a convenience wrapper around Events for in-memory pages.
func EventsFromBytes(page []byte) iter.Seq[Event] {
	return Events(bytes.NewReader(page))
}

// EventsFromString is a convenience wrapper around Events for string input.
func EventsFromString(page string) iter.Seq[Event] {
	return Events(strings.NewReader(page))
}

func startEvent(z *html.Tokenizer) Event {
	name, hasAttr := z.TagName()
	ev := Event{Kind: KindStartTag, Name: string(name)}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		ev.Attrs = append(ev.Attrs, Attr{Key: string(key), Val: string(val)})
	}
	return ev
}
