package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// googleTranslateURL is the public Google translation web endpoint.
const googleTranslateURL = "https://translate.googleapis.com/translate_a/single"

// Translator converts a text from a source language to a target language.
// Language codes follow ISO 639-1 ("en", "de", "cs"); sourceLang may be
// "auto" to let the service detect the language.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// GoogleTranslator translates through the public Google web endpoint. It
// needs no API key but offers no delivery guarantees; failures surface as
// ErrTranslationService and are never retried.
type GoogleTranslator struct {
	client  *http.Client
	baseURL string
}

// NewGoogleTranslator creates a translator backed by the given HTTP client.
// A nil client selects a default with a 30 second timeout.
func NewGoogleTranslator(client *http.Client) *GoogleTranslator {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GoogleTranslator{client: client, baseURL: googleTranslateURL}
}

// Translate requests a translation of text and returns the translated
// segments joined together.
func (g *GoogleTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	query := url.Values{
		"client": {"gtx"},
		"sl":     {sourceLang},
		"tl":     {targetLang},
		"dt":     {"t"},
		"q":      {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslationService, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslationService, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %s", ErrTranslationService, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslationService, err)
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse extracts the translated text from the endpoint's
// nested-array payload. The first element is a list of segments; each
// segment's first element is the translated text.
func parseGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrTranslationService, err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrTranslationService)
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrTranslationService, err)
	}

	var translated string
	for _, segment := range segments {
		var parts []json.RawMessage
		if err := json.Unmarshal(segment, &parts); err != nil {
			return "", fmt.Errorf("%w: malformed segment: %v", ErrTranslationService, err)
		}
		if len(parts) == 0 {
			continue
		}
		var text string
		if err := json.Unmarshal(parts[0], &text); err != nil {
			return "", fmt.Errorf("%w: malformed segment: %v", ErrTranslationService, err)
		}
		translated += text
	}
	return translated, nil
}

// TranslateColumn translates every non-null value of a text column and
// returns a dataset identical to the input except that column. When dst is
// a non-zero endpoint the result is also exported there in write mode.
// Null values stay null. The first translation failure aborts the whole
// operation; nothing is retried.
func (c *Connector) TranslateColumn(ctx context.Context, data *Dataset, column, sourceLang, targetLang string, dst Endpoint) (*Dataset, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrConfiguration)
	}
	col, ok := data.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: column %q not found", ErrConfiguration, column)
	}
	for _, v := range col.Values {
		if !v.IsNull() && v.Kind() != KindString {
			return nil, fmt.Errorf("%w: column %q is not a text column", ErrConfiguration, column)
		}
	}

	translated := make([]Value, len(col.Values))
	for i, v := range col.Values {
		if v.IsNull() {
			translated[i] = Null()
			continue
		}
		text, err := c.translator.Translate(ctx, v.String(), sourceLang, targetLang)
		if err != nil {
			if !errors.Is(err, ErrTranslationService) {
				err = fmt.Errorf("%w: %v", ErrTranslationService, err)
			}
			return nil, err
		}
		translated[i] = Str(text)
	}

	result, err := data.WithColumn(column, translated)
	if err != nil {
		return nil, err
	}

	c.logger.Info("translated column",
		zap.String("column", column),
		zap.String("source_lang", sourceLang),
		zap.String("target_lang", targetLang),
		zap.Int("rows", len(translated)))

	if !dst.IsZero() {
		if err := c.Export(ctx, result, dst); err != nil {
			return nil, err
		}
	}
	return result, nil
}
