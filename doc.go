/*
Package fluent provides a fluent browser-automation test DSL.

Commands and expectations take element accessors, usually built from CSS
selectors with Session.Find and Session.FindAll. Accessors are resolved
lazily: nothing is queried until a command or an expectation consumes one.
The document itself is supplied by an adapter, such as the WebDriver client
in package webdriver, the DevTools client in package chromedoc, or the static
HTML document in package htmldoc.

Example usage:

	package main

	import (
		"context"
		"fmt"

		"github.com/wanmail/fluent"
		"github.com/wanmail/fluent/webdriver"
	)

	// Errors are ignored for brevity.

	func main() {
		rec, _ := fluent.ResolveRemoteCapabilities(fluent.Chrome, nil)
		wd, _ := webdriver.NewRemote(rec.Capabilities(), "")
		defer wd.Quit()

		s := fluent.NewSession(wd)
		s.Open("http://localhost:8080/quote")
		s.Select("Motorcycles").From(s.Find("#vehicle"))
		s.Enter("6").In(s.Find("#age"))
		s.Click(s.Find("#calculate"))

		err := s.Wait(context.Background(), fluent.Check(func() error {
			return s.Expect().Text("$197.70", s.Find("#total"))
		}))
		fmt.Println(err)
	}
*/
package fluent
