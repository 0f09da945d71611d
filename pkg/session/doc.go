/*
Package session implements the wallet session lifecycle.

A Manager establishes and holds the single live Session (account, signer and
contract binding). Sessions are created by an explicit, possibly prompting,
connect or by a silent connect that only reuses accounts the wallet already
authorized. There is no disconnect: a Session lives until it is replaced.
*/
package session
