package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// BoxDoc is a face location in pixel coordinates
type BoxDoc struct {
	Left   int `json:"left" example:"120"`
	Top    int `json:"top" example:"80"`
	Right  int `json:"right" example:"260"`
	Bottom int `json:"bottom" example:"240"`
}

// MatchDoc is the match of one detected face
type MatchDoc struct {
	Name         string  `json:"name" example:"Alice"`
	ID           string  `json:"id" example:"a1"`
	Distance     float64 `json:"distance,omitempty" example:"0.31"`
	MatchedIndex int     `json:"matched_index,omitempty" example:"0"`
}

// FaceDoc pairs a face with its match
type FaceDoc struct {
	Box   BoxDoc   `json:"box"`
	Match MatchDoc `json:"match"`
}

// RecognizeResponse represents the response of a recognition
type RecognizeResponse struct {
	Name  string    `json:"name" example:"Alice"`
	ID    string    `json:"id" example:"a1"`
	Faces []FaceDoc `json:"faces"`
}

// PersonResponse represents one gallery record
type PersonResponse struct {
	Index int    `json:"index" example:"0"`
	ID    string `json:"id" example:"a1"`
	Name  string `json:"name" example:"Alice"`
}

// RebuildResponse represents the response of a gallery rebuild
type RebuildResponse struct {
	Count int `json:"count" example:"12"`
}

// InfoResponse represents UI bootstrap information
type InfoResponse struct {
	PicturePrompt string  `json:"picture_prompt" example:"Upload a picture to identify the people in it."`
	WebcamPrompt  string  `json:"webcam_prompt" example:"Start the webcam to identify people live."`
	Tolerance     float64 `json:"tolerance" example:"0.5"`
}

// HealthResponse represents a health or readiness check
type HealthResponse struct {
	Status  string            `json:"status" example:"ready"`
	Version string            `json:"version,omitempty" example:"1.0.0"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
	Detail  string `json:"detail,omitempty" example:"name and id are required"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

var (
	errInvalidImage   = response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Image could not be decoded"}, "422", "Unprocessable Entity")
	errValidation     = response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity")
	errNoFace         = response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity")
	errNotFound       = response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Person not found"}, "404", "Not Found")
	errStorage        = response.New(ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "Gallery storage is unavailable"}, "503", "Service Unavailable")
	errInternal       = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
	errTolerance      = response.New(ErrorResponse{Code: "INVALID_TOLERANCE", Message: "Tolerance must be within [0, 1]"}, "422", "Unprocessable Entity")
	multipartConsumes = []mime.MIME{mime.MIME("multipart/form-data")}
)

func toleranceParam() *parameter.Parameter {
	return parameter.StrParam("tolerance", parameter.Query, parameter.WithDescription("Match tolerance within [0, 1] (default: TOLERANCE). Also accepted as a form field."))
}

func idParam() *parameter.Parameter {
	return parameter.StrParam("id", parameter.Path, parameter.WithDescription("Person identifier"))
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "IDentifyMe Face Recognition API",
		Version:     "v1.0.0",
		Description: "Identify known people in photos and live frames against a gallery of reference faces",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// Recognition endpoints

		endpoint.New(
			endpoint.POST,
			"/recognize",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Recognize faces in an image"),
			endpoint.WithDescription("Detects every face in the multipart image field and labels each with the first gallery record within tolerance. name and id are those of the last face that matched."),
			endpoint.WithConsume(multipartConsumes),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(toleranceParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecognizeResponse{}, "200", "Recognition completed"),
			}),
			endpoint.WithErrors([]response.Response{errValidation, errInvalidImage, errTolerance, errStorage, errInternal}),
		),

		endpoint.New(
			endpoint.POST,
			"/recognize/annotated",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Recognize faces and return the annotated image"),
			endpoint.WithDescription("Same input as /recognize. Responds with a JPEG with boxes and labels drawn; X-Person-Name and X-Person-Id carry the last matched face."),
			endpoint.WithConsume(multipartConsumes),
			endpoint.WithProduce([]mime.MIME{mime.MIME("image/jpeg")}),
			endpoint.WithParams(toleranceParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "200", "Annotated JPEG"),
			}),
			endpoint.WithErrors([]response.Response{errValidation, errInvalidImage, errTolerance, errStorage, errInternal}),
		),

		// People endpoints

		endpoint.New(
			endpoint.GET,
			"/people",
			endpoint.WithTags("People"),
			endpoint.WithSummary("List gallery records"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]PersonResponse{}, "200", "Records in index order"),
			}),
			endpoint.WithErrors([]response.Response{errStorage, errInternal}),
		),

		endpoint.New(
			endpoint.POST,
			"/people",
			endpoint.WithTags("People"),
			endpoint.WithSummary("Add a person"),
			endpoint.WithDescription("Multipart fields name, id and image. The first face in the image is stored."),
			endpoint.WithConsume(multipartConsumes),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PersonResponse{}, "201", "Person added"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				errInvalidImage,
				errNoFace,
				response.New(ErrorResponse{Code: "DUPLICATE_ID", Message: "A person with this id already exists"}, "409", "Conflict"),
				errStorage,
				errInternal,
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/people/{id}",
			endpoint.WithTags("People"),
			endpoint.WithSummary("Look up a person"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PersonResponse{}, "200", "Person found"),
			}),
			endpoint.WithErrors([]response.Response{errNotFound, errStorage, errInternal}),
		),

		endpoint.New(
			endpoint.GET,
			"/people/{id}/image",
			endpoint.WithTags("People"),
			endpoint.WithSummary("Get the stored reference image"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("image/png")}),
			endpoint.WithParams(idParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "200", "PNG image"),
			}),
			endpoint.WithErrors([]response.Response{errNotFound, errStorage, errInternal}),
		),

		endpoint.New(
			endpoint.PUT,
			"/people/{id}",
			endpoint.WithTags("People"),
			endpoint.WithSummary("Update a person in place"),
			endpoint.WithDescription("Optional multipart fields name, id and image. Omitted fields keep their current value; the record keeps its index."),
			endpoint.WithConsume(multipartConsumes),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PersonResponse{}, "200", "Person updated"),
			}),
			endpoint.WithErrors([]response.Response{errNotFound, errInvalidImage, errNoFace, errStorage, errInternal}),
		),

		endpoint.New(
			endpoint.DELETE,
			"/people/{id}",
			endpoint.WithTags("People"),
			endpoint.WithSummary("Delete a person"),
			endpoint.WithParams(idParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Person deleted"),
			}),
			endpoint.WithErrors([]response.Response{errNotFound, errStorage, errInternal}),
		),

		// Gallery endpoints

		endpoint.New(
			endpoint.POST,
			"/gallery/rebuild",
			endpoint.WithTags("Gallery"),
			endpoint.WithSummary("Rebuild the gallery from the dataset directory"),
			endpoint.WithDescription("Encodes every <name>_<id>.<ext> file of DATASET_DIR in name order and replaces the stored gallery."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RebuildResponse{}, "200", "Gallery rebuilt"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "MALFORMED_SOURCE_FILENAME", Message: "Dataset file name is not <name>_<id>.<ext>"}, "422", "Unprocessable Entity"),
				errNoFace,
				errStorage,
				errInternal,
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/info",
			endpoint.WithTags("Info"),
			endpoint.WithSummary("UI prompts and default tolerance"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(InfoResponse{}, "200", "Info"),
			}),
		),

		// Streaming endpoints

		endpoint.New(
			endpoint.GET,
			"/live",
			endpoint.WithTags("Streaming"),
			endpoint.WithSummary("Live recognition over websocket"),
			endpoint.WithDescription("Send encoded frames as binary messages. Each frame is answered with a frame.recognized JSON event and, with annotate=true, a binary JPEG. A bad frame ends the session with capture.failed."),
			endpoint.WithParams(
				toleranceParam(),
				parameter.StrParam("annotate", parameter.Query, parameter.WithDescription("Also send the annotated frame as JPEG (true/false)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "101", "Switching Protocols"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/events",
			endpoint.WithTags("Streaming"),
			endpoint.WithSummary("Gallery change events over websocket"),
			endpoint.WithDescription("Pushes person.added, person.updated, person.deleted and gallery.rebuilt events as JSON text messages."),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "101", "Switching Protocols"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
