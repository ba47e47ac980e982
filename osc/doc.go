//Package osc implements the Open Sound Control 1.0 wire format, together
//with the ports, notification surface and relays needed to move packets
//between processes.
//
//This implementation follows the Open Sound Control 1.0 Specification
//(http://opensoundcontrol.org/spec-1_0.html).
//
//Open Sound Control (OSC) is an open, transport-independent, message-based
//protocol developed for communication among computers, sound synthesizers,
//and other multimedia devices.
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//	't' (Timetag)
//	'h' (int64)
//	'd' (float64)
//	'S' (Symbol)
//	'c' (Char)
//	'm' (MIDI)
//	'r' (RGBA)
//	'T' (true)
//	'F' (false)
//	'N' (nil)
//	'I' (Impulse)
//
//- Supports OSC bundles with arbitrary nesting, including TimeTags
//
//- Strict and lenient decoding via Options, with unknown type tags
//preserved byte for byte in lenient mode
//
//- Transport adapters: DatagramPort for packet transports and StreamPort
//for byte streams, framed with the slip package
//
//- Relays that forward packets between two ports with optional address
//rewriting and without echoing a packet back to its origin
//
//- Full support for OSC Address matching and dispatching
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
//OSC Messages: An OSC message consists of an OSC address pattern and zero or more OSC arguments.
//
//OSC Bundles: An OSC Bundle consists of an OSC Timetag, followed by zero or more OSC bundle elements.
//Each bundle element can be another OSC bundle (note this recursive definition: a bundle may contain bundles) or OSC message.
//
//Arguments are plain Go values. Sized integers and floats map directly to
//their tags; unsized ints and uints take 'i' when the value fits in 32 bits
//and 'h' otherwise. The generic Int and Float helpers pick the wire type up
//front when that choice should not depend on the value.
//
//Usage
//
//OSC client example:
//  client, _ := osc.Dial("localhost:8765")
//  msg := osc.NewMessage("/osc/address")
//  msg.Append(int32(111))
//  msg.Append(true)
//  msg.Append("hello")
//  client.Send(msg)
//
//OSC server example:
//  d := &osc.Dispatcher{}
//  d.AddMethodFunc("/message/address", func(msg *osc.Message) {
//      fmt.Println(msg)
//  })
//
//  server := &osc.Server{
//      Addr: "127.0.0.1:8765",
//      Dispatcher: d,
//  }
//  server.ListenAndServe()
//
//Notification example, reacting to every leaf message with the time tag of
//its enclosing bundle:
//  server := &osc.Server{Addr: "127.0.0.1:8765"}
//  server.Port().OnMessage(func(msg *osc.Message, tt osc.Timetag, info osc.Info) {
//      fmt.Println(tt.Time(), msg)
//  })
//  server.ListenAndServe()
package osc
