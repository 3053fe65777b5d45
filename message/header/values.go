package header

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-mimeframe/message/header/token"
)

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// ParseTime is a function that provides the time parsing used by GetTime() and
// GetDate() to parse dates to be used on any field body. This will attempt to
// parse the date using the format specified by RFC 5322 first and fallback to
// parsing it in many other formats.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime gets the given date header field as a time.Time. It will attempt to
// parse the date in many formats, not just the format specified by RFC 5322
// (though, it will try that first).
//
// It will return an error if it is unable to parse the time value from the date
// header. It will return the zero value and ErrNoSuchField if the header does
// not exist. It will return the zero value and ErrManyFields if more than one
// field with the name is set on the header.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(body)
}

// SetTime will replace all existing header fields with the given name with a
// single header field with the given name and time. The time will be formatted
// via time.RFC1123Z.
func (h *Header) SetTime(name string, body time.Time) error {
	return h.Set(name, body.Format(time.RFC1123Z))
}

// GetDate returns the Date header as a time.Time.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// ParseAddressList provides the address parsing used by GetAddressList() and
// can be used to parse any field body. It will attempt a strict parse of the
// email address list. However, if that fails, an extremely lenient parsing
// will be attempted, which might result in results that can only be described
// as "weird" in the effort to provide some kind of result. It is so forgiving,
// it will return some kind of value for any input.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}

	return al
}

// GetAddressList will return an addr.AddressList for the named field. This
// method works hard to avoid parse errors and tries to accept anything. As such
// a badly formatted address field might return a weird address value.
//
// It will return nil and ErrNoSuchField if the field is not set on the header.
// It will return ErrManyFields if the field is set more than once on the
// header.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}
	return ParseAddressList(body), nil
}

// SetAddressList will replace all existing header fields with the given name
// with a single header containing the given addresses.
func (h *Header) SetAddressList(name string, body ...addr.Address) error {
	return h.Set(name, addr.AddressList(body).String())
}

// parseEmailAddressList is the lenient fallback. Each comma-separated entry
// of the tokenized field becomes a mailbox:
//
// 1. Comments are gathered up as the mailbox comment.
// 2. If there is an <angle-addr>, it is the address and everything before it
// is the display name.
// 3. Otherwise, the last word is the address and the words before it are the
// display name.
//
// We stuff whatever we get into an addr.Mailbox and call it good. As they are
// so rare, we will assume we are never dealing with groups.
func parseEmailAddressList(v string) addr.AddressList {
	entries := token.Split(token.Parse(v), ',')
	as := make(addr.AddressList, 0, len(entries))
	for _, entry := range entries {
		var comment strings.Builder
		var before []token.Token
		var angle *token.Address
		for _, t := range entry {
			switch tv := t.(type) {
			case token.Comment:
				if comment.Len() > 0 {
					comment.WriteByte(' ')
				}
				comment.WriteString(token.Text(tv.Tokens))
			case token.Address:
				if angle == nil {
					angle = &tv
				}
			default:
				if angle == nil {
					before = append(before, t)
				}
			}
		}

		var dn, email string
		if angle != nil {
			dn = strings.TrimSpace(token.Text(before))
			email = strings.TrimSpace(token.Text(angle.Tokens))
		} else {
			parts := strings.Fields(token.Text(before))
			switch {
			case len(parts) > 1:
				dn = strings.Join(parts[:len(parts)-1], " ")
				email = parts[len(parts)-1]
			case len(parts) == 1:
				email = parts[0]
			}
		}

		if email == "" {
			continue
		}

		var addrSpec *addr.AddrSpec
		if i := strings.LastIndex(email, "@"); i > -1 {
			addrSpec = addr.NewAddrSpecParsed(email[:i], email[i+1:], email)
		} else {
			addrSpec = addr.NewAddrSpecParsed(email, "", email)
		}

		orig := token.String(entry)
		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, strings.TrimSpace(comment.String()), orig)
		if err != nil {
			mailbox, _ = addr.NewMailboxParsed(dn, addrSpec, "", orig)
		}

		as = append(as, mailbox)
	}

	return as
}
