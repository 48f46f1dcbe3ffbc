/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called buckets. Each bucket contains
only one type of model, serialized with protobuf and stored under
"<bucket name>:<key>". A bucket may use a sequence to generate keys for newly
created entities.
*/
package orm
