package responder

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// OrderPrompt asks for an order number when the customer mentions an order
// without one we can extract.
const OrderPrompt = `I'd be happy to help you check your order status! Please share your order number, for example "order #AB12CD34" or "ORD-12345", and I'll look it up for you.`

// Chooser picks an index in [0, n).
type Chooser func(n int) int

// RandomChooser draws uniformly from math/rand/v2.
func RandomChooser(n int) int {
	return rand.IntN(n)
}

type bucket struct {
	name      string
	triggers  []string
	words     *regexp.Regexp
	templates []string
}

func (b bucket) matches(text string) bool {
	if b.words != nil && b.words.MatchString(text) {
		return true
	}
	for _, trigger := range b.triggers {
		if strings.Contains(text, trigger) {
			return true
		}
	}
	return false
}

var orderPhraseTriggers = []string{"order status", "track order", "where is my order", "my order", "order number"}

var fallbackBuckets = []bucket{
	{
		name:  "greeting",
		words: regexp.MustCompile(`\b(hello|hi|hey)\b`),
		templates: []string{
			"Hello! Welcome to our jewelry store. How can I help you today?",
			"Hi there! Looking for something special? I can help with products, orders, shipping and more.",
			"Hey! Thanks for reaching out. What can I do for you today?",
		},
	},
	{
		name:     "product",
		triggers: []string{"product", "jewelry", "ring", "necklace", "earring", "bracelet"},
		templates: []string{
			"We carry rings, necklaces, earrings and bracelets. Browse the shop to see our latest collection!",
			"All of our pieces are handcrafted. Is there a particular style or material you're looking for?",
			"You can filter our catalogue by category and price to find the perfect piece.",
			"Each product page lists materials, sizing and care instructions. Let me know if you need help choosing.",
		},
	},
	{
		name:     "pricing",
		triggers: []string{"price", "cost", "expensive", "cheap", "discount"},
		templates: []string{
			"Prices are listed in PKR on every product page and include all taxes.",
			"Keep an eye on our homepage for seasonal discounts and promotions!",
			"We have pieces for every budget. Try sorting the catalogue by price to find something that fits.",
		},
	},
	{
		name:     "shipping",
		triggers: []string{"shipping", "delivery", "free shipping"},
		templates: []string{
			"We deliver nationwide. Orders usually arrive within 3-5 business days.",
			"Shipping costs are calculated at checkout, and larger orders qualify for free shipping.",
			"Once your order ships you'll receive a confirmation with the delivery details.",
		},
	},
	{
		name:     "returns",
		triggers: []string{"return", "refund", "exchange"},
		templates: []string{
			"You can return or exchange unworn items within 7 days of delivery.",
			"Refunds are processed within 5-7 business days after we receive the returned item.",
			"To start a return or exchange, contact our support team with your order number.",
		},
	},
	{
		name:     "contact",
		triggers: []string{"contact", "email", "phone", "support"},
		templates: []string{
			"You can reach our support team by email or phone during business hours.",
			"Our support team is happy to help. Leave your question here and we'll get back to you.",
			"For urgent questions, please call our support line. Details are on the Contact page.",
		},
	},
}

var defaultTemplates = []string{
	"I'm not sure I understood that. Could you tell me a bit more about what you're looking for?",
	"I can help with products, pricing, shipping, returns and order status. What would you like to know?",
	"Could you rephrase that? You can also ask me to check an order by sharing your order number.",
	"Sorry, I didn't catch that. Are you asking about a product, an order or delivery?",
}

// Fallback is the last-resort classifier over fixed topic buckets.
type Fallback struct {
	choose Chooser
}

// NewFallback uses RandomChooser when choose is nil.
func NewFallback(choose Chooser) *Fallback {
	if choose == nil {
		choose = RandomChooser
	}
	return &Fallback{choose: choose}
}

// IsOrderPhrase reports whether the message talks about an order.
func (f *Fallback) IsOrderPhrase(message string) bool {
	text := strings.ToLower(message)
	for _, trigger := range orderPhraseTriggers {
		if strings.Contains(text, trigger) {
			return true
		}
	}
	return false
}

// Respond walks the buckets in order and answers from the first match. The
// order-phrase bucket always gives OrderPrompt; other buckets pick a random
// template.
func (f *Fallback) Respond(message string) Reply {
	if f.IsOrderPhrase(message) {
		return NewReply(OrderPrompt)
	}
	text := strings.ToLower(message)
	for _, b := range fallbackBuckets {
		if b.matches(text) {
			return NewReply(f.pick(b.templates))
		}
	}
	return NewReply(f.pick(defaultTemplates))
}

func (f *Fallback) pick(templates []string) string {
	i := f.choose(len(templates))
	if i < 0 || i >= len(templates) {
		i = 0
	}
	return templates[i]
}
