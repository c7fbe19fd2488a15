package database

// Storage interface represents the behavior required to be implemented by any
// package providing support for holding the ordered blocks of the chain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Count() uint64
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}
