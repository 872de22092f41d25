/*
Package wordpos implements an external-memory word-position search index: a
compact on-disk structure that, given a vocabulary of W distinct words
enumerated 0..W-1, records for each word the sorted list of byte offsets in
some source corpus where that word occurs.

# Overview

The package has three pieces:

  - Writer emits one self-contained file: a delta-encoded, per-word
    position stream followed by a trailing offset directory and a
    word-count trailer.
  - Reader opens that file and, for any word id, returns a Cursor that
    pages through its decoded absolute positions.
  - Builder is the outer pipeline: it accepts (word, position) pairs in any
    order, buffers them in a fixed-capacity in-memory arena, flushes full
    arenas as slice files, and merges every slice into one final index file
    on Close.

# Quick Start

Build an index from (word, position) pairs delivered in corpus order:

	b, err := wordpos.NewBuilder("corpus.idx", wordCount, 1<<20)
	if err != nil {
	    log.Fatal(err)
	}
	for _, pair := range pairsInCorpusOrder {
	    if err := b.Add(pair.Word, pair.Position); err != nil {
	        log.Fatal(err)
	    }
	}
	if err := b.Close(); err != nil {
	    log.Fatal(err)
	}

Read back a word's matches:

	r, err := wordpos.OpenReader("corpus.idx")
	if err != nil {
	    log.Fatal(err)
	}
	defer r.Close()

	cur, err := r.Find(wordID)
	if err != nil {
	    log.Fatal(err)
	}
	var buf [256]uint64
	for !cur.Done() {
	    n, err := cur.Page(buf[:])
	    if err != nil {
	        log.Fatal(err)
	    }
	    for _, pos := range buf[:n] {
	        fmt.Println(pos)
	    }
	}

# Quantization

Positions are stored right-shifted by Shift (2) bits and recovered
left-shifted back on read. Two input positions within the same
Shift-granularity bucket are indistinguishable on read, and are
de-duplicated at write time — Find never returns two positions sharing a
bucket.

# External-Memory Construction

Builder never holds the whole corpus in memory. Positions are buffered in a
fixed-capacity arena; once it fills, its contents are written out as an
immutable slice file and the arena is reused. At Close, every slice is
opened and its per-word streams are concatenated in slice-creation order —
because slices are flushed in corpus order and are themselves
corpus-ordered per word, this concatenation is already globally ascending,
so no priority-queue merge is required.

# File Format

	+----------------------------------------------+
	|  Word 0 delta stream (varints)                |  <- starts at byte 0
	|  Word 1 delta stream (varints)                |
	|  ...                                           |
	|  Word W-1 delta stream (varints)               |
	+----------------------------------------------+
	|  Directory: u32[W] firstByteOffset[w]          |
	+----------------------------------------------+
	|  u32 wordCount = W                             |  <- last 4 bytes
	+----------------------------------------------+

The varint convention is an unsigned little-endian base-128 encoding where
the *last* byte (not the continuation bytes) has its high bit set — the
inverse of the common LEB128 polarity. This is deliberate and bit-exact;
see the package tests for the literal byte sequences.

# Concurrency

A Builder, Writer, or Reader is not safe for concurrent use. There is no
locking anywhere in this package: the Builder is an
exclusive, single-threaded owner of both its in-memory arena and its
working directory, and callers must serialize Add and Close calls
themselves.

# Non-goals

This package supports bulk construction and random read only. There is no
deletion or mutation of an existing index, no concurrent-writer support,
and no in-place update — building a new index is always a fresh Builder
writing to a fresh path.

# License

MIT License - Copyright (c) 2025 haldane
*/
package wordpos
