// Package taxonomy talks to the external product taxonomy service.
//
// The taxonomy is five levels deep: category, subcategory, subcategory type,
// product type and product style. The Client lists entities (filtered by
// parent on the client side, the service returns whole collections) and
// creates them through multipart uploads. A Refresher pushes the freshly
// loaded entries into the matching dropdowns of a builder session, falling
// back to a LocalStore when the service cannot be reached.
package taxonomy
