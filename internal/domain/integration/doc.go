// Package integration contains the Integration bounded context.
// This context manages the connection to the external marketplace platform:
// shop credentials, pulled syncable records, tracking state, and inbound
// webhook envelopes.
//
// Key concepts:
//   - ShopCredential: Entity holding one tenant's marketplace connection
//   - PlatformRecord: Value object for a record pulled from the platform
//   - TrackingState: Entity tracking one (order, tracking number) pair
//   - WebhookEvent: Transient envelope for inbound push notifications
//   - PlatformClient: Port interface for the paginated marketplace API
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
