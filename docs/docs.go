// Package docs Rider Safety API.
//
// Documentation of the Rider Safety API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//     - multipart/form-data
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/rider-safety-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /auth/register auth registerID
// Registers a rider and starts a session.
// responses:
//   200: sessionResponse

// swagger:route POST /auth/login auth loginID
// Starts a session for a registered rider.
// responses:
//   200: sessionResponse

// The session token and the rider it belongs to. The token is also set as the jwt cookie.
// swagger:response sessionResponse
type sessionResponseWrapper struct {
	// in:body
	Body models.SessionResponse
}

// swagger:parameters registerID
type registerParamsWrapper struct {
	// in:body
	Body models.RegisterRequest
}

// swagger:route POST /user/detectLabels/{userUniqueKey} user detectLabelsID
// Classifies the uploaded image, records a violation instance and issues a challan when a rule was broken.
// responses:
//   200: detectionResponse

// swagger:response detectionResponse
type detectionResponseWrapper struct {
	// in:body
	Body models.DetectionResponse
}

// swagger:route POST /user/sensorData/{userUniqueKey} user sensorDataID
// Stores one telemetry sample for the rider.
// responses:
//   201: statusResponse

// swagger:parameters sensorDataID
type sensorDataParamsWrapper struct {
	// in:path
	UserUniqueKey string `json:"userUniqueKey"`
	// in:body
	Body models.SensorSampleRequest
}

// swagger:response statusResponse
type statusResponseWrapper struct {
	// in:body
	Body models.StatusResponse
}

// swagger:route GET /user/getAllInstances user instancesID
// Lists a rider's violation instances.
// responses:
//   200: instancesResponse

// swagger:response instancesResponse
type instancesResponseWrapper struct {
	// in:body
	Body models.InstancesResponse
}

// swagger:route GET /user/getAllChallans user challansID
// Lists a rider's challans.
// responses:
//   200: challansResponse

// swagger:response challansResponse
type challansResponseWrapper struct {
	// in:body
	Body models.ChallansResponse
}
