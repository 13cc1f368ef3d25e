package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/backend/core"
)

var testConf = &core.Config{
	AppName:          "Sekolahku",
	DefaultFromEmail: mail.Address{Name: "Sekolahku", Address: "noreply@localhost"},
}

func newMessage(subject string) *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Name: "Budi", Address: "budi@localhost"}},
		Subject: subject,
		Body:    "Halo",
	}
}

func Test_consoleServiceMock_records(t *testing.T) {
	svc := NewConsoleServiceMock(testConf)

	before := len(SentMessages)
	svc.SendMessages(newMessage("satu"), newMessage("dua"))

	assert.Len(t, SentMessages, before+2)
	assert.Equal(t, "satu", SentMessages[before].Subject)
	assert.Equal(t, "dua", SentMessages[before+1].Subject)
}

func Test_consoleServiceMock_skipsEmptyMessages(t *testing.T) {
	svc := NewConsoleServiceMock(testConf)

	before := len(SentMessages)
	svc.SendMessages(
		&core.EmailMessage{Subject: "no recipients", Body: "Halo"},
		&core.EmailMessage{To: []mail.Address{{Address: "budi@localhost"}}, Subject: "no content"},
	)

	assert.Len(t, SentMessages, before)
}

func Test_consoleService_doesNotRecord(t *testing.T) {
	svc := consoleService{
		defaultFromEmail: testConf.DefaultFromEmail,
		subjPrefix:       "[" + testConf.AppName + "] ",
		disableOutput:    true,
	}

	before := len(SentMessages)
	svc.sendMessage(newMessage("tiga"))

	assert.Len(t, SentMessages, before)
}
