// Package contact builds the deep links shoppers use to reach the shop.
package contact

import (
	"net/url"
	"strings"
)

type Links struct {
	WhatsAppNumber string
	Phone          string
	Email          string
	Address        string
	InstagramURL   string
}

// WhatsApp opens a chat with the shop, prefilled with text when it is not empty.
func (l Links) WhatsApp(text string) string {
	link := "https://wa.me/" + l.WhatsAppNumber
	if text == "" {
		return link
	}
	return link + "?text=" + url.QueryEscape(text)
}

// Dial returns a tel: link. Spaces in the display number are dropped.
func (l Links) Dial() string {
	return "tel:" + strings.ReplaceAll(l.Phone, " ", "")
}

func (l Links) Mail() string {
	if l.Email == "" {
		return ""
	}
	return "mailto:" + l.Email
}

func (l Links) ProductQuestion(productName string) string {
	return l.WhatsApp("Hi, I have a question about: " + productName)
}

func (l Links) HelpChoosing() string {
	return l.WhatsApp("Hi! I need help choosing a candle.")
}

// Card is the contact block rendered in the footer and the contact page.
type Card struct {
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	WhatsApp     string `json:"whatsapp"`
	HelpChoosing string `json:"helpChoosing"`
	Dial         string `json:"dial"`
	Mail         string `json:"mail,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
}

func (l Links) Card() Card {
	return Card{
		Phone:        l.Phone,
		Email:        l.Email,
		Address:      l.Address,
		WhatsApp:     l.WhatsApp(""),
		HelpChoosing: l.HelpChoosing(),
		Dial:         l.Dial(),
		Mail:         l.Mail(),
		Instagram:    l.InstagramURL,
	}
}
