/*
Package graph implements the block-export node graph.

A Graph is an arena of nodes, sockets and links addressed by integer handles.
Every value is pulled: asking a socket for its text, objects, readiness or
export walks the live graph from that socket upstream until a source with no
further links supplies a value. Nothing is cached; the version counter only
tells observers that the topology changed.

Node behaviour is composed from small capability interfaces (ObjectProvider,
Exporter, ReadinessCheck, PropertyProvider, TopologyListener), and socket
behaviour from the capability set of each SocketKind. Resolution asks "does
this implement X", never "is this concrete type Y".
*/
package graph
