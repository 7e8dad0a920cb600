package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"ponyexpress/shipping"
)

// ResponseType is the body format a carrier answers with.
type ResponseType int

const (
	JSON ResponseType = iota
	XML
)

func (t ResponseType) String() string {
	switch t {
	case JSON:
		return "JSON"
	case XML:
		return "XML"
	}
	return "unknown"
}

// Courier is implemented once per carrier.
type Courier interface {
	Track(ctx context.Context, trackingID string) (*shipping.TrackingResponse, error)
	ValidateAddress(ctx context.Context, req AddressRequest) (*shipping.AddressValidationResponse, error)
	GetRate(ctx context.Context, rateType shipping.RateType, method string, pkg *shipping.Package) (*shipping.RateCalculationResponse, error)
	ProcessError(ctx context.Context, f *Failure) error
}

// AddressRequest is the caller's address to validate. Street2 is the
// primary number and road; Street1 the secondary unit or building.
type AddressRequest struct {
	State      string
	City       string
	PostalCode string
	Street1    string
	Street2    string
	Name       string
}

// ErrorHook turns a failed carrier call into an error.
type ErrorHook func(ctx context.Context, f *Failure) error

const defaultTimeout = 20 * time.Second

// BaseCourier issues carrier requests and parses their bodies. Carriers
// embed it, fill in Endpoints and install their own ErrorHook.
type BaseCourier struct {
	Username     string
	Password     string
	Endpoints    Endpoints
	ResponseType ResponseType
	HTTPClient   *http.Client
	Logger       *zap.Logger
	ErrorHook    ErrorHook
}

func NewBaseCourier(username, password string) *BaseCourier {
	return &BaseCourier{
		Username:     username,
		Password:     password,
		Endpoints:    Endpoints{},
		ResponseType: JSON,
		HTTPClient:   &http.Client{Timeout: defaultTimeout},
		Logger:       zap.NewNop(),
	}
}

// Endpoint returns the URL template configured for op.
func (b *BaseCourier) Endpoint(op Operation) (string, error) {
	tmpl := b.Endpoints[op]
	if tmpl == "" {
		return "", errors.Wrapf(ErrNotConfigured, "failed to specify the %s service endpoint", op)
	}
	return tmpl, nil
}

// GetServerResponse formats the endpoint for op with params and the
// courier credentials, issues a GET and parses a 2xx body into out.
// Other statuses go through the ErrorHook.
func (b *BaseCourier) GetServerResponse(ctx context.Context, op Operation, params map[string]string, out any) error {
	tmpl, err := b.Endpoint(op)
	if err != nil {
		return err
	}

	values := make(map[string]string, len(params)+2)
	for k, v := range params {
		values[k] = v
	}
	values["username"] = b.Username
	values["password"] = b.Password

	endpoint, err := FormatEndpoint(tmpl, values)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to format endpoint", op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrapf(stripURL(err), "%s: failed to create request", op)
	}

	start := time.Now()
	resp, err := b.httpClient().Do(req)
	if err != nil {
		b.logger().Warn("carrier request failed", zap.Stringer("operation", op), zap.Duration("duration", time.Since(start)), zap.Error(stripURL(err)))
		return errors.Wrapf(stripURL(err), "%s: failed to send request", op)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to read response", op)
	}
	logResponse(b.logger(), op, resp.StatusCode, len(body), time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return b.hook()(ctx, &Failure{Operation: op, StatusCode: resp.StatusCode, Body: body})
	}
	return b.Parse(body, out)
}

// Parse decodes body according to ResponseType.
func (b *BaseCourier) Parse(body []byte, out any) error {
	switch b.ResponseType {
	case JSON:
		return b.ParseJSON(body, out)
	case XML:
		return b.ParseXML(body, out)
	}
	return errors.Wrapf(ErrNotConfigured, "no parser for response type %d", int(b.ResponseType))
}

func (b *BaseCourier) ParseJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "the webserver responded with malformed %s: %v", JSON, err)
	}
	return nil
}

func (b *BaseCourier) ParseXML(body []byte, out any) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(out); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "the webserver responded with malformed %s: %v", XML, err)
	}

	// Only whitespace, comments and processing instructions may follow the
	// document element.
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(ErrMalformedResponse, "the webserver responded with malformed %s: %v", XML, err)
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errors.Wrapf(ErrMalformedResponse, "the webserver responded with malformed %s: junk after document element", XML)
			}
		default:
			return errors.Wrapf(ErrMalformedResponse, "the webserver responded with malformed %s: junk after document element", XML)
		}
	}
}

// ProcessError is the default ErrorHook. It knows nothing about the
// carrier and always reports ErrUnimplemented.
func (b *BaseCourier) ProcessError(_ context.Context, f *Failure) error {
	if f == nil {
		return errors.Wrap(ErrUnimplemented, "cannot interpret this error")
	}
	return errors.Wrapf(ErrUnimplemented, "%s: cannot interpret this error (status %d)", f.Operation, f.StatusCode)
}

func (b *BaseCourier) Track(_ context.Context, _ string) (*shipping.TrackingResponse, error) {
	if _, err := b.Endpoint(Tracking); err != nil {
		return nil, err
	}
	return nil, errors.Wrapf(ErrUnimplemented, "%s is not implemented for this carrier", Tracking)
}

func (b *BaseCourier) ValidateAddress(_ context.Context, _ AddressRequest) (*shipping.AddressValidationResponse, error) {
	if _, err := b.Endpoint(AddressValidation); err != nil {
		return nil, err
	}
	return nil, errors.Wrapf(ErrUnimplemented, "%s is not implemented for this carrier", AddressValidation)
}

func (b *BaseCourier) GetRate(_ context.Context, rateType shipping.RateType, _ string, _ *shipping.Package) (*shipping.RateCalculationResponse, error) {
	op, err := RateOperation(rateType)
	if err != nil {
		return nil, err
	}
	if _, err := b.Endpoint(op); err != nil {
		return nil, err
	}
	return nil, errors.Wrapf(ErrUnimplemented, "%s is not implemented for this carrier", op)
}

func (b *BaseCourier) hook() ErrorHook {
	if b.ErrorHook == nil {
		return b.ProcessError
	}
	return b.ErrorHook
}

func (b *BaseCourier) httpClient() *http.Client {
	if b.HTTPClient == nil {
		b.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return b.HTTPClient
}

func (b *BaseCourier) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// stripURL drops the request URL from transport errors; it carries the
// courier credentials.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

var _ Courier = (*BaseCourier)(nil)
