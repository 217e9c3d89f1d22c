// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc encodes and decodes OpenSoundControl packets and matches OSC address patterns.
//
//This implementation is based on the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html).
//
//Open Sound Control (OSC) is an open, transport-independent, message-based protocol developed for communication among computers,
//sound synthesizers, and other multimedia devices. This package works on byte slices only: reading packets from a socket,
//framing them on a stream and scheduling bundles by their time tag are left to the caller.
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//	'h' (int64)
//	't' (Timetag)
//	'd' (float64)
//	'c' (Char)
//	'r' (RGBA)
//	'm' (MIDI)
//	'T' (true)
//	'F' (false)
//	'N' (nil)
//	'I' (Infinitum)
//	'[' ... ']' ([]interface{})
//
//- Supports OSC bundles, including TimeTags, nested up to a configurable depth.
//
//- Full support for OSC Address matching and dispatching.
//
//Packets
//
//The unit of transmission of OSC is an OSC Packet. Any application that sends OSC Packets is an OSC Client;
//any application that receives OSC Packets is an OSC Server.
//
//An OSC packet consists of its contents, a contiguous block of binary data.
//The size of an OSC packet is always 32-bit aligned.
//
//OSC packets come in two flavors:
//
//OSC Messages: An OSC message consists of an OSC address pattern and  zero or more OSC arguments.
//
//OSC Bundles: An OSC Bundle consists of an OSC Timetag, followed by zero or more OSC bundle elements.
//Each bundle element can be another OSC bundle (note this recursive definition: a bundle may contain bundles) or OSC message.
//
//Errors
//
//Every failure is an *Error. Its Kind tells malformed input apart by cause, and the ErrBad* sentinels
//match by Kind under errors.Is:
//
//  if errors.Is(err, osc.ErrBadBundle) { ... }
//
//Usage
//
//Encoding:
//  msg := osc.NewMessage("/osc/address")
//  msg.Append(int32(111))
//  msg.Append(true)
//  msg.Append("hello")
//  data, err := osc.Encode(msg)
//
//Decoding and dispatching:
//  d := &osc.Dispatcher{}
//  d.AddMethodFunc("/message/address", func(msg *osc.Message) {
//      fmt.Println(msg)
//  })
//
//  packet, err := osc.ParsePacket(data)
//  if err != nil {
//      return err
//  }
//  return d.Dispatch(packet)
package osc
